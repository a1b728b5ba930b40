package user

import "errors"

var ErrEmailAlreadyExists = errors.New("user already exists")
