package file

import "errors"

var ErrTokenTaken = errors.New("share token already exists")
