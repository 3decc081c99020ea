package handlers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/BRajendra10/yotube-backend/internal/handlers/render"
)

// pathUUID parses a UUID path segment, rendering a 400 on garbage
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		render.Error(w, http.StatusBadRequest, "Invalid "+name+" in path")
		return uuid.Nil, false
	}
	return id, true
}

// filePart is one uploaded file from a multipart form
type filePart struct {
	file     multipart.File
	filename string
	ctype    string
}

func (p *filePart) Close() { _ = p.file.Close() }

// formFile opens the named multipart file. A nil part with ok=true means
// the client did not send one; ok=false means an error response was
// already written.
func formFile(w http.ResponseWriter, r *http.Request, name string) (part *filePart, ok bool) {
	file, header, err := r.FormFile(name)
	if err == http.ErrMissingFile {
		return nil, true
	}
	if err != nil {
		render.Error(w, http.StatusBadRequest, "Malformed file field '"+name+"'")
		return nil, false
	}

	ctype := header.Header.Get("Content-Type")
	if ctype == "" {
		ctype = "application/octet-stream"
	}

	return &filePart{file: file, filename: header.Filename, ctype: ctype}, true
}

// requiredFormFile is formFile for parts the endpoint cannot work without
func requiredFormFile(w http.ResponseWriter, r *http.Request, name string) (*filePart, bool) {
	part, ok := formFile(w, r, name)
	if !ok {
		return nil, false
	}
	if part == nil {
		render.Error(w, http.StatusBadRequest, "Missing file field '"+name+"'")
		return nil, false
	}
	return part, true
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// validateForm reports whether the bound form passed validation,
// rendering the field errors when it did not
func validateForm(w http.ResponseWriter, value render.Struct) bool {
	return render.ValidateStruct(w, value) == nil
}
