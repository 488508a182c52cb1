package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/roomiehq/roomie/internal/service"
	"github.com/roomiehq/roomie/pkg/validator"
)

type UserHandler struct {
	matching *service.MatchingService
}

func NewUserHandler(matching *service.MatchingService) *UserHandler {
	return &UserHandler{matching: matching}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateRegisterUser(validator.RegisterUserInput{
		DeviceID:    input.DeviceID,
		Name:        input.Name,
		NetID:       input.NetID,
		GradYear:    input.GradYear,
		Age:         input.Age,
		Gender:      input.Gender,
		SleepTime:   input.SleepTime,
		Cleanliness: input.Cleanliness,
		City:        input.City,
		State:       input.State,
		Email:       input.Email,
	}); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.matching.RegisterUser(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateUser):
			writeError(w, http.StatusConflict, "USER_EXISTS", "A user with this device ID already exists")
		case errors.Is(err, service.ErrInvalidLocation):
			writeError(w, http.StatusBadRequest, "INVALID_LOCATION", "The address could not be geocoded")
		default:
			log.Error("register user", "device_id", input.DeviceID, "error", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.matching.ListUsers(r.Context())
	if err != nil {
		log.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("deviceID")

	user, err := h.matching.GetUser(r.Context(), deviceID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		log.Error("get user", "device_id", deviceID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deviceID := r.PathValue("deviceID")

	user, err := h.matching.DeleteUser(r.Context(), deviceID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		log.Error("delete user", "device_id", deviceID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
