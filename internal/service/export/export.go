// Package export serializes the full store for download and restores it
// from such a document.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bayraktare/pmt/internal/model"
	"github.com/bayraktare/pmt/internal/store"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json" (the default when empty), "yaml" and "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", &model.ValidationError{Field: "format", Reason: "must be json or yaml"}
}

func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Envelope is the exported document: a timestamp plus every collection.
type Envelope struct {
	ExportedAt string `json:"exported_at" yaml:"exported_at"`
	store.Data `yaml:",inline"`
}

// Filename is pmt_export_YYYYMMDD.<ext> for the given day.
func Filename(f Format, now time.Time) string {
	return fmt.Sprintf("pmt_export_%s.%s", now.Format("20060102"), f)
}

// Export serializes d and names the download.
func Export(d store.Data, f Format, now time.Time) ([]byte, string, error) {
	env := Envelope{ExportedAt: now.UTC().Format(time.RFC3339), Data: d}

	var (
		out []byte
		err error
	)
	switch f {
	case FormatJSON:
		out, err = json.MarshalIndent(env, "", "    ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(env); err == nil {
			err = enc.Close()
		}
		out = buf.Bytes()
	default:
		return nil, "", fmt.Errorf("export: unsupported format %q", f)
	}
	if err != nil {
		return nil, "", fmt.Errorf("export: encode %s: %w", f, err)
	}
	return out, Filename(f, now), nil
}

// Import decodes an exported document and checks it is internally
// consistent before it may replace the store.
func Import(data []byte, f Format) (store.Data, error) {
	var env Envelope
	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &env)
	case FormatYAML:
		err = yaml.Unmarshal(data, &env)
	default:
		return store.Data{}, fmt.Errorf("import: unsupported format %q", f)
	}
	if err != nil {
		return store.Data{}, &model.ValidationError{Field: "document", Reason: err.Error()}
	}

	d := env.Data
	for i := range d.Tasks {
		if d.Tasks[i].Comments == nil {
			d.Tasks[i].Comments = []model.Comment{}
		}
	}
	if err := check(d); err != nil {
		return store.Data{}, err
	}
	return d, nil
}

func check(d store.Data) error {
	seen := make(map[string]bool)
	unique := func(kind, id string) error {
		if id == "" {
			return &model.ValidationError{Field: kind, Reason: "missing id"}
		}
		key := kind + "/" + id
		if seen[key] {
			return &model.ValidationError{Field: kind, Reason: "duplicate id " + id}
		}
		seen[key] = true
		return nil
	}

	for _, t := range d.Tasks {
		if err := unique("tasks", t.ID); err != nil {
			return err
		}
		if err := model.ValidateTask(t); err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
	}
	for _, r := range d.Reports {
		if err := unique("reports", r.ID); err != nil {
			return err
		}
		if err := model.ValidateReport(r); err != nil {
			return fmt.Errorf("report %s: %w", r.ID, err)
		}
	}
	admins := 0
	for _, u := range d.Users {
		if err := unique("users", u.Username); err != nil {
			return err
		}
		switch u.Role {
		case model.RoleAdmin:
			admins++
		case model.RolePartner:
		default:
			return &model.ValidationError{Field: "users", Reason: fmt.Sprintf("user %s has unknown role %q", u.Username, u.Role)}
		}
		if u.PasswordHash == "" {
			return &model.ValidationError{Field: "users", Reason: "user " + u.Username + " has no password_hash"}
		}
	}
	for _, n := range d.Notifications {
		if err := unique("notifications", n.ID); err != nil {
			return err
		}
	}
	for _, doc := range d.Documents {
		if err := unique("documents", doc.ID); err != nil {
			return err
		}
	}
	// an import replaces every account
	if admins == 0 {
		return &model.ValidationError{Field: "users", Reason: "at least one admin is required"}
	}
	return nil
}
