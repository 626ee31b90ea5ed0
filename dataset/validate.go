package dataset

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json field names so error paths match the input document.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that every record carries its required fields and that
// segments and placemarks only reference known, unique feature ids. It
// returns the first problem as a *MalformedError.
func Validate(ds *Dataset) error {
	if ds == nil {
		return malformed("dataset", "", "missing")
	}
	if err := validate.Struct(ds); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fromFieldError(verrs[0])
		}
		return fmt.Errorf("%w: %v", ErrMalformedDataset, err)
	}

	known := make(map[string]bool, len(ds.Features))
	for i, f := range ds.Features {
		if known[f.ID] {
			return malformed(fmt.Sprintf("features[%d]", i), "id", fmt.Sprintf("duplicate feature id %q", f.ID))
		}
		known[f.ID] = true
	}
	for i, s := range ds.Segments {
		if err := checkRefs(fmt.Sprintf("segments[%d]", i), s.IDs, known); err != nil {
			return err
		}
	}
	for i, p := range ds.Placemarks {
		if err := checkRefs(fmt.Sprintf("placemarks[%d]", i), p.IDs, known); err != nil {
			return err
		}
	}
	return nil
}

func checkRefs(record string, ids []string, known map[string]bool) error {
	for j, id := range ids {
		if !known[id] {
			return malformed(record, fmt.Sprintf("ids[%d]", j), fmt.Sprintf("unknown feature id %q", id))
		}
	}
	return nil
}

func fromFieldError(fe validator.FieldError) *MalformedError {
	// Namespace is "Dataset.features[0].projects[1].status".
	_, path, _ := strings.Cut(fe.Namespace(), ".")
	record := strings.TrimSuffix(path, "."+fe.Field())
	if record == path {
		record = "dataset"
	}
	var reason string
	switch fe.Tag() {
	case "required":
		reason = "missing"
	case "min":
		reason = "must not be empty"
	case "latitude", "longitude":
		reason = fmt.Sprintf("invalid %s %v", fe.Tag(), fe.Value())
	default:
		reason = fmt.Sprintf("fails %q", fe.Tag())
	}
	return malformed(record, fe.Field(), reason)
}
