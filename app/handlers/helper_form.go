package handlers

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/amirphl/helper-registry/app/dto"
	"github.com/amirphl/helper-registry/app/services"
	"github.com/amirphl/helper-registry/utils"
	_ "golang.org/x/image/webp"
)

// Multipart file fields and the blob store category they are written to
const (
	photoField         = "photo"
	kycDocumentField   = "kycDocument"
	otherDocumentField = "otherDocument"
)

var (
	photoExts    = map[string]struct{}{".jpg": {}, ".jpeg": {}, ".png": {}, ".webp": {}}
	documentExts = map[string]struct{}{".jpg": {}, ".jpeg": {}, ".png": {}, ".pdf": {}}
)

// helperForm holds the text fields of a multipart helper submission
type helperForm struct {
	FullName      string
	Email         string
	Services      []string
	Organization  string
	Languages     []string
	Gender        string
	PhonePrefix   string
	PhoneNumber   string
	VehicleType   string
	VehicleNumber string
	KYCDocType    string
	OtherDocType  string
}

// fieldError is a malformed form field
type fieldError struct {
	Field string
	Err   error
}

func (e *fieldError) Error() string { return fmt.Sprintf("%s: %v", e.Field, e.Err) }
func (e *fieldError) Unwrap() error { return e.Err }

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

func parseHelperForm(form *multipart.Form) (*helperForm, error) {
	services, err := utils.ParseStringList(formValue(form, "services"))
	if err != nil {
		return nil, &fieldError{Field: "services", Err: err}
	}
	languages, err := utils.ParseStringList(formValue(form, "languages"))
	if err != nil {
		return nil, &fieldError{Field: "languages", Err: err}
	}

	return &helperForm{
		FullName:      formValue(form, "fullName"),
		Email:         formValue(form, "email"),
		Services:      services,
		Organization:  formValue(form, "organization"),
		Languages:     languages,
		Gender:        formValue(form, "gender"),
		PhonePrefix:   formValue(form, "phonePrefix"),
		PhoneNumber:   formValue(form, "phoneNumber"),
		VehicleType:   formValue(form, "vehicleType"),
		VehicleNumber: formValue(form, "vehicleNumber"),
		KYCDocType:    formValue(form, "kycDocType"),
		OtherDocType:  formValue(form, "otherDocType"),
	}, nil
}

func (f *helperForm) createRequest(files dto.HelperFileRefs) dto.CreateHelperRequest {
	return dto.CreateHelperRequest{
		FullName:      f.FullName,
		Email:         f.Email,
		Services:      f.Services,
		Organization:  f.Organization,
		Languages:     f.Languages,
		Gender:        f.Gender,
		PhonePrefix:   f.PhonePrefix,
		PhoneNumber:   f.PhoneNumber,
		VehicleType:   f.VehicleType,
		VehicleNumber: f.VehicleNumber,
		KYCDocType:    f.KYCDocType,
		OtherDocType:  f.OtherDocType,
		Files:         files,
	}
}

func (f *helperForm) updateRequest(employeeID string, files dto.HelperFileRefs) dto.UpdateHelperRequest {
	return dto.UpdateHelperRequest{
		EmployeeID:    employeeID,
		FullName:      f.FullName,
		Email:         f.Email,
		Services:      f.Services,
		Organization:  f.Organization,
		Languages:     f.Languages,
		Gender:        f.Gender,
		PhonePrefix:   f.PhonePrefix,
		PhoneNumber:   f.PhoneNumber,
		VehicleType:   f.VehicleType,
		VehicleNumber: f.VehicleNumber,
		KYCDocType:    f.KYCDocType,
		OtherDocType:  f.OtherDocType,
		Files:         files,
	}
}

func getFirstFile(files []*multipart.FileHeader) *multipart.FileHeader {
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

// storeHelperFiles writes the uploaded photo and documents to the blob store
func storeHelperFiles(ctx context.Context, blobs services.BlobStore, form *multipart.Form) (dto.HelperFileRefs, error) {
	var refs dto.HelperFileRefs
	uploads := []struct {
		field string
		exts  map[string]struct{}
		dst   **string
	}{
		{photoField, photoExts, &refs.Photo},
		{kycDocumentField, documentExts, &refs.KYCDocument},
		{otherDocumentField, documentExts, &refs.OtherDocument},
	}

	for _, u := range uploads {
		fh := getFirstFile(form.File[u.field])
		if fh == nil {
			continue
		}
		ref, err := storeUploadedFile(ctx, blobs, u.field, u.exts, fh)
		if err != nil {
			return dto.HelperFileRefs{}, &fieldError{Field: u.field, Err: err}
		}
		*u.dst = &ref
	}
	return refs, nil
}

func storeUploadedFile(ctx context.Context, blobs services.BlobStore, field string, exts map[string]struct{}, fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := exts[ext]; !ok {
		return "", fmt.Errorf("invalid file type %q", ext)
	}
	if fh.Size > utils.MaxUploadSize {
		return "", fmt.Errorf("file too large")
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if field == photoField {
		if _, _, err := image.DecodeConfig(src); err != nil {
			return "", fmt.Errorf("photo is not a valid image: %w", err)
		}
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return "", err
		}
	}

	return blobs.Save(ctx, field, fh.Filename, fh.Header.Get("Content-Type"), fh.Size, src)
}
