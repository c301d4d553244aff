package controllers

import (
	"net/http"
	"strings"

	"github.com/kidcycle/kidcycle-backend/api/responses"
	"github.com/kidcycle/kidcycle-backend/internal/users"
	"github.com/kidcycle/kidcycle-backend/pkg/db/models"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	pkgerrors "github.com/kidcycle/kidcycle-backend/pkg/errors"
	"github.com/kidcycle/kidcycle-backend/pkg/logger"
)

// AdminUserList returns platform accounts, optionally scoped to one role.
func AdminUserList(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			rows []models.User
			err  error
		)
		if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
			role, perr := enums.ParseUserRole(raw)
			if perr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, perr, "invalid role"))
				return
			}
			rows, err = repo.ListByRole(r.Context(), role)
		} else {
			rows, err = repo.List(r.Context())
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users"))
			return
		}

		dtos := make([]users.UserDTO, 0, len(rows))
		for i := range rows {
			dtos = append(dtos, *users.FromModel(&rows[i]))
		}
		responses.WriteSuccess(w, dtos)
	}
}
