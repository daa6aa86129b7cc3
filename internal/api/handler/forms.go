package handler

import "github.com/authapp/portal/internal/core/domain"

type loginForm struct {
	Email    string `form:"email"    validate:"required"`
	Password string `form:"password" validate:"required"`
}

func (f loginForm) draft() domain.LoginDraft {
	return domain.LoginDraft{Email: f.Email, Password: f.Password}
}

type registerForm struct {
	Username string `form:"username" validate:"required"`
	Email    string `form:"email"    validate:"required"`
	Password string `form:"password" validate:"required"`
	Phone    string `form:"phone"`
	Role     string `form:"role"     validate:"omitempty,oneof=customer seller"`
}

func (f registerForm) draft() domain.RegisterDraft {
	d := domain.NewRegisterDraft()
	d.Username = f.Username
	d.Email = f.Email
	d.Password = f.Password
	d.Phone = f.Phone
	if f.Role != "" {
		d.Role = domain.Role(f.Role)
	}
	return d
}

type profileForm struct {
	Username    string `form:"username"     validate:"required"`
	Email       string `form:"email"        validate:"required"`
	Phone       string `form:"phone"`
	NewPassword string `form:"new_password"`
}

func (f profileForm) draft() domain.ProfileDraft {
	return domain.ProfileDraft{
		Username:    f.Username,
		Email:       f.Email,
		Phone:       f.Phone,
		NewPassword: f.NewPassword,
	}
}

type roleForm struct {
	Role string `form:"role" validate:"required,oneof=admin seller customer"`
}
