package response

import (
	"time"

	"venue-booking/internal/data/entity"
)

type AuthResponse struct {
	AdminID   string    `json:"admin_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func AuthToResponse(admin *entity.Admin, session *entity.Session) AuthResponse {
	resp := AuthResponse{
		AdminID: admin.ID.String(),
		Email:   admin.Email,
	}

	if session != nil {
		resp.Token = session.Token.String()
		resp.ExpiresAt = session.ExpiresAt
	}

	return resp
}

type AdminProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type AdminProfileResponse struct {
	Admin AdminProfile `json:"admin"`
}

func AdminToProfileResponse(admin *entity.Admin) AdminProfileResponse {
	return AdminProfileResponse{
		Admin: AdminProfile{
			ID:    admin.ID.String(),
			Email: admin.Email,
		},
	}
}
