package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"larder/internal/forms"
	"larder/internal/imports"
	applog "larder/internal/log"
)

type importResponse struct {
	Recipe    *recipeResponse   `json:"recipe,omitempty"`
	Error     string            `json:"error,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Unmatched []string          `json:"unmatched"`
	Warnings  []string          `json:"warnings"`
}

// ImportRecipe builds a recipe from an uploaded PDF or text document, or
// from a pasted recipe_text field, matching its lines against the catalog.
func ImportRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imports.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(imports.MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		applog.Debug(r.Context(), "failed to parse import upload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid upload")
		return
	}

	text, err := importText(r)
	if err != nil {
		applog.Debug(r.Context(), "unable to read recipe document", "error", err)
		status := http.StatusBadRequest
		if errors.Is(err, imports.ErrUnsupportedType) {
			status = http.StatusUnsupportedMediaType
		}
		writeJSONError(w, status, err.Error())
		return
	}
	if strings.TrimSpace(text) == "" {
		writeJSONError(w, http.StatusBadRequest, "recipe_file or recipe_text is required")
		return
	}

	catalog, err := dataStore().ListIngredients(r.Context())
	if err != nil {
		writeStoreError(w, r, err, "ingredients")
		return
	}
	draft := imports.Build(imports.Parse(text), catalog, strings.TrimSpace(r.FormValue("name")), strings.TrimSpace(r.FormValue("description")))
	applog.Debug(r.Context(), "recipe draft built", "lines", len(draft.Form.Ingredients), "unmatched", len(draft.Unmatched))

	resp := importResponse{Unmatched: draft.Unmatched, Warnings: draft.Warnings}
	form := draft.Form
	if err := forms.Validate(&form); err != nil {
		writeImportError(w, r, err, resp)
		return
	}
	input, err := recipeInput(r.Context(), form)
	if err != nil {
		writeImportError(w, r, err, resp)
		return
	}
	recipe, err := dataStore().CreateRecipe(r.Context(), userID, input)
	if err != nil {
		writeStoreError(w, r, err, "recipe")
		return
	}

	projected := projectRecipe(*recipe)
	resp.Recipe = &projected
	applog.Info(r.Context(), "recipe imported", "id", recipe.ID, "lines", len(recipe.Ingredients), "unmatched", len(draft.Unmatched))
	writeJSON(w, http.StatusCreated, resp)
}

func importText(r *http.Request) (string, error) {
	file, header, err := r.FormFile("recipe_file")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return r.FormValue("recipe_text"), nil
	case err != nil:
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, imports.MaxUploadSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > imports.MaxUploadSize {
		return "", errors.New("recipe document is too large")
	}
	mime := header.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = imports.MimeTypeFromName(header.Filename)
	}
	return imports.ExtractText(data, mime)
}

func writeImportError(w http.ResponseWriter, r *http.Request, err error, resp importResponse) {
	var invalid *forms.ValidationError
	if !errors.As(err, &invalid) {
		writeStoreError(w, r, err, "recipe")
		return
	}
	applog.Debug(r.Context(), "imported recipe rejected", "fields", invalid.Fields)
	resp.Error = "invalid input"
	resp.Fields = invalid.Fields
	writeJSON(w, http.StatusBadRequest, resp)
}
