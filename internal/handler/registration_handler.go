package handler

import (
	"errors"
	"net/http"

	"coursehub/internal/auth"
	"coursehub/internal/entity"
	"coursehub/internal/validate"
)

var signupRoles = []string{string(entity.RoleStudent), string(entity.RoleTeacher), string(entity.RoleAdmin)}

func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	if currentUser(r).LoggedIn() {
		redirect(w, r, "/")
		return
	}
	h.renderSignup(w, r, http.StatusOK, auth.SignupInput{Role: string(entity.RoleStudent)}, "")
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	in := auth.SignupInput{
		Name:     r.FormValue("name"),
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
		SchoolID: r.FormValue("school_id"),
		Role:     r.FormValue("role"),
		Code:     r.FormValue("code"),
		Address:  r.FormValue("address"),
		Phone:    r.FormValue("phone"),
	}

	_, err := h.auth.Signup(r.Context(), in)
	if err == nil {
		redirect(w, r, "/login?message=registered")
		return
	}

	var (
		verr    *validate.Error
		codeErr *auth.CodeError
		msg     string
	)
	switch {
	case errors.As(err, &verr):
		msg = verr.Error()
	case errors.As(err, &codeErr):
		msg = "Invalid " + string(codeErr.Role) + " enrollment code."
	case errors.Is(err, auth.ErrSchoolIDTaken):
		msg = "That school ID is already registered."
	case errors.Is(err, auth.ErrUsernameTaken):
		msg = "Username already taken. Please choose another."
	default:
		serverError(w, r, h.view, err)
		return
	}
	h.renderSignup(w, r, http.StatusUnprocessableEntity, in, msg)
}

// renderSignup shows the form with the submitted values. Password and
// enrollment code are never echoed back.
func (h *AuthHandler) renderSignup(w http.ResponseWriter, r *http.Request, status int, in auth.SignupInput, msg string) {
	data := pageData(r, "Sign up")
	if msg != "" {
		data["Error"] = msg
	}
	data["Roles"] = signupRoles
	data["Form"] = map[string]string{
		"name":      in.Name,
		"username":  in.Username,
		"school_id": in.SchoolID,
		"role":      in.Role,
		"address":   in.Address,
		"phone":     in.Phone,
	}
	h.view.Render(w, status, "signup", data)
}
