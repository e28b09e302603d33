package auth

type LoginDTO struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=6,max=50"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Captcha purposes.
const (
	CaptchaRegister       = "REGISTER"
	CaptchaUpdatePassword = "UPDATE_PASSWORD"
	CaptchaUpdateInfo     = "UPDATE_INFO"
)

type CaptchaDTO struct {
	Email string `json:"email" validate:"required,email"`
	Type  string `json:"type" validate:"required,oneof=REGISTER UPDATE_PASSWORD UPDATE_INFO"`
}

type RegisterDTO struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Nickname string `json:"nickname" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=6,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Captcha  string `json:"captcha" validate:"required,len=6"`
}

type UpdatePasswordDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Captcha  string `json:"captcha" validate:"required,len=6"`
	Password string `json:"password" validate:"required,min=6,max=50"`
}
