// Package transfer moves JobTrack data between installations as a single
// versioned JSON document. The document carries the raw stored text of
// every local key so an export restores byte for byte.
package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/manav03panchal/jobtrack/internal/errors"
	"github.com/manav03panchal/jobtrack/internal/logging"
	"github.com/manav03panchal/jobtrack/internal/model"
	"github.com/manav03panchal/jobtrack/internal/storage"
)

// Version is the only document version this release reads and writes.
const Version = 1

// timestampLayout matches the millisecond ISO-8601 form of existing exports.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// KV is the raw key/value access the codec needs.
type KV interface {
	Snapshot(keys ...string) (map[string][]byte, error)
	SetMany(values map[string][]byte) error
}

// Data holds the stored text of each key, nil when the key was absent.
type Data struct {
	CompanyApplications *string `json:"companyApplications"`
	CalendarEvents      *string `json:"calendarEvents"`
	LeetcodeProblems    *string `json:"leetcodeProblems"`
	LeetcodeDailyGoal   *string `json:"leetcodeDailyGoal"`
}

// fields pairs every storage key with its slot in d.
func (d *Data) fields() map[string]**string {
	return map[string]**string{
		model.KeyApplications: &d.CompanyApplications,
		model.KeyEvents:       &d.CalendarEvents,
		model.KeyProblems:     &d.LeetcodeProblems,
		model.KeyDailyGoal:    &d.LeetcodeDailyGoal,
	}
}

// Document is an export file.
type Document struct {
	Version   int    `json:"version"`
	Timestamp string `json:"timestamp"`
	Data      Data   `json:"data"`
}

// now is replaced in tests.
var now = time.Now

// Export snapshots every local key into a new document.
func Export(ctx context.Context, kv KV) (*Document, error) {
	values, err := kv.Snapshot(model.Keys...)
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("export", "failed to read local storage", err)
	}

	doc := &Document{
		Version:   Version,
		Timestamp: now().UTC().Format(timestampLayout),
	}
	present := 0
	for key, slot := range doc.Data.fields() {
		if raw := values[key]; raw != nil {
			text := string(raw)
			*slot = &text
			present++
		}
	}

	logging.FromContext(ctx).Info("data exported", logging.KeyCount, present)
	return doc, nil
}

// Encode writes the document as indented JSON.
func (d *Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// WriteTo implements io.WriterTo.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

// FileName returns the default name of an export file written at t.
func FileName(t time.Time) string {
	return "jobtrack-data-" + t.Format("2006-01-02") + ".json"
}

// wireDocument distinguishes absent fields from zero values.
type wireDocument struct {
	Version   *int   `json:"version"`
	Timestamp string `json:"timestamp"`
	Data      *Data  `json:"data"`
}

// DecodeDocument parses an export file and checks its envelope. The data
// fields are not inspected; see Validate.
func DecodeDocument(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewSystemError("failed to read import file", err)
	}

	var wire wireDocument
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, errors.NewValidationError("document", "not a JobTrack export: "+err.Error())
	}
	if wire.Version == nil || *wire.Version == 0 {
		return nil, errors.NewValidationError("version", "is required")
	}
	if wire.Data == nil {
		return nil, errors.NewValidationError("data", "is required")
	}
	if *wire.Version != Version {
		return nil, fmt.Errorf("%w %d: %w", errors.ErrUnknownVersion, *wire.Version, errors.ErrValidation)
	}

	return &Document{
		Version:   *wire.Version,
		Timestamp: wire.Timestamp,
		Data:      *wire.Data,
	}, nil
}

// Summary counts the records of a validated document. A nil count means the
// collection is absent from the document and will be left alone.
type Summary struct {
	Applications *int `json:"applications"`
	Events       *int `json:"events"`
	Problems     *int `json:"problems"`
	DailyGoal    *int `json:"daily_goal"`
}

// Validate parses every present collection of doc and checks each record.
func Validate(doc *Document) (*Summary, error) {
	var s Summary
	var err error

	if s.Applications, err = validateCollection[*model.Application]("companyApplications", doc.Data.CompanyApplications); err != nil {
		return nil, err
	}
	if s.Events, err = validateCollection[*model.Event]("calendarEvents", doc.Data.CalendarEvents); err != nil {
		return nil, err
	}
	if s.Problems, err = validateCollection[*model.Problem]("leetcodeProblems", doc.Data.LeetcodeProblems); err != nil {
		return nil, err
	}

	if text := doc.Data.LeetcodeDailyGoal; present(text) {
		goal, err := storage.ParseDailyGoal([]byte(*text))
		if err != nil {
			return nil, errors.Wrap(err, "leetcodeDailyGoal")
		}
		s.DailyGoal = &goal
	}
	return &s, nil
}

func present(text *string) bool {
	return text != nil && *text != ""
}

func validateCollection[T model.Entity[T]](field string, text *string) (*int, error) {
	if !present(text) {
		return nil, nil
	}

	items, err := storage.DecodeCollection[T]([]byte(*text))
	if err != nil {
		return nil, errors.NewValidationError(field, "unreadable: "+err.Error())
	}

	seen := make(map[string]bool, len(items))
	for i, item := range items {
		id := item.GetID()
		if id == "" {
			return nil, errors.NewValidationError(fmt.Sprintf("%s[%d].id", field, i), "is required")
		}
		if seen[id] {
			return nil, errors.NewValidationError(fmt.Sprintf("%s[%d].id", field, i), "duplicate id '"+id+"'")
		}
		seen[id] = true

		if err := item.Validate(); err != nil {
			return nil, errors.Wrapf(err, "%s[%d]", field, i)
		}
	}

	n := len(items)
	return &n, nil
}

// Result reports a completed import.
type Result struct {
	// Keys lists the storage keys that were overwritten.
	Keys    []string `json:"keys"`
	Summary *Summary `json:"summary"`
	// ReloadRequired is always true: in-memory stores still hold the old
	// data until they are hydrated again.
	ReloadRequired bool `json:"reload_required"`
}

// Import reads an export file, validates all of it, and overwrites the keys
// it carries in one transaction. Keys absent from the document are kept.
// Nothing is written when any part fails validation.
func Import(ctx context.Context, kv KV, r io.Reader) (*Result, error) {
	doc, err := DecodeDocument(r)
	if err != nil {
		return nil, err
	}
	summary, err := Validate(doc)
	if err != nil {
		return nil, err
	}

	values := make(map[string][]byte)
	for key, slot := range doc.Data.fields() {
		if present(*slot) {
			values[key] = []byte(**slot)
		}
	}

	if len(values) > 0 {
		if err := kv.SetMany(values); err != nil {
			return nil, errors.NewSystemErrorWithOp("import", "failed to write local storage", err)
		}
	}

	keys := make([]string, 0, len(values))
	for _, key := range model.Keys {
		if _, ok := values[key]; ok {
			keys = append(keys, key)
		}
	}

	logging.FromContext(ctx).Info("data imported",
		logging.KeyCount, len(keys),
		logging.KeyOperation, "import",
	)
	return &Result{Keys: keys, Summary: summary, ReloadRequired: true}, nil
}
