package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/otp-auth-api/internal/application/profile"
	"github.com/otp-auth-api/internal/domain"
	"github.com/otp-auth-api/internal/transport/http/middleware"
)

// maxAvatarBytes bounds the multipart body of a profile edit.
const maxAvatarBytes = 5 << 20

// ProfileHandler serves profile reads and edits for the authenticated actor.
type ProfileHandler struct {
	svc profile.Service
}

func NewProfileHandler(svc profile.Service) *ProfileHandler { return &ProfileHandler{svc: svc} }

func (h *ProfileHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	u, err := h.svc.GetUser(r.Context(), actor.ID)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", u)
}

func (h *ProfileHandler) GetSeller(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	s, err := h.svc.GetSeller(r.Context(), actor.ID)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "", s)
}

// UpdateUser accepts either a JSON body or a multipart form whose optional
// "profileImage" file part becomes the new avatar.
func (h *ProfileHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req domain.UpdateProfileRequest
	var avatar *profile.Avatar
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
		if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		req = formProfile(r)
		file, header, err := r.FormFile("profileImage")
		switch {
		case err == nil:
			defer file.Close()
			avatar = &profile.Avatar{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Body:        file,
			}
		case !errors.Is(err, http.ErrMissingFile):
			writeError(w, http.StatusBadRequest, "invalid profileImage upload")
			return
		}
	} else if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.svc.UpdateUser(r.Context(), actor.ID, req, avatar)
	if err != nil {
		httpError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, "profile updated", u)
}

// formProfile reads the fields present in a multipart form. Absent fields stay nil.
func formProfile(r *http.Request) domain.UpdateProfileRequest {
	field := func(name string) *string {
		if vs, ok := r.MultipartForm.Value[name]; ok && len(vs) > 0 {
			v := vs[0]
			return &v
		}
		return nil
	}
	return domain.UpdateProfileRequest{
		Name:   field("name"),
		Email:  field("email"),
		Phone:  field("phone"),
		DOB:    field("dob"),
		Gender: field("gender"),
	}
}
