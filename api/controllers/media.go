package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/kidcycle/kidcycle-backend/api/responses"
	"github.com/kidcycle/kidcycle-backend/internal/media"
	"github.com/kidcycle/kidcycle-backend/pkg/enums"
	pkgerrors "github.com/kidcycle/kidcycle-backend/pkg/errors"
	"github.com/kidcycle/kidcycle-backend/pkg/logger"
)

// multipartMemoryLimit bounds how much of the form is buffered in memory.
const multipartMemoryLimit = 8 << 20

// MediaUpload accepts a multipart listing photo and returns its hosted URL.
func MediaUpload(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer func() { _ = file.Close() }()

		image, err := svc.UploadListingImage(r.Context(), media.UploadInput{
			OwnerID:  ownerID,
			Filename: header.Filename,
			Size:     header.Size,
			Body:     file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, image)
	}
}

// MediaDelete removes a stored listing photo by object name. Sellers may only
// sweep objects under their own prefix; admins may remove any object.
func MediaDelete(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		objectName := strings.TrimSpace(r.URL.Query().Get("object"))
		if objectName == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "object query parameter is required"))
			return
		}

		role, err := actorRole(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ownPrefix := fmt.Sprintf("listings/%s/", ownerID)
		if role != enums.UserRoleAdmin && !strings.HasPrefix(objectName, ownPrefix) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "cannot delete another seller's media"))
			return
		}

		if err := svc.DeleteListingImage(r.Context(), objectName); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
