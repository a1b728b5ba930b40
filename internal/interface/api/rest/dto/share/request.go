package share

type (
	UsersRequest struct {
		UserIDs []string `json:"userIds" validate:"required,min=1,dive,uuid"`
	}
	LinkRequest struct {
		ExpiresInHours *float64 `json:"expiresInHours" validate:"required"`
	}
)
