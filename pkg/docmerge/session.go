package docmerge

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/classify"
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/grid"
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/models"
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/output"
	"github.com/ArthurChan93/AnMao-docs/pkg/docmerge/parser"
)

// Upload is a named file buffer.
type Upload struct {
	Name string
	Data []byte
}

// BatchReport describes the outcome of one Process call.
type BatchReport struct {
	Group   classify.Group              `json:"group"`
	Notices []models.Notice             `json:"notices"`
	Added   map[models.DocumentType]int `json:"added"`
}

func (b *BatchReport) notice(level models.Level, kind models.NoticeKind, file, msg string) {
	b.Notices = append(b.Notices, models.Notice{Level: level, Kind: kind, File: file, Message: msg})
}

// Session holds the processed-file registry and the accumulated datasets of
// one user. A Session is not safe for concurrent use.
type Session struct {
	opts      Options
	log       zerolog.Logger
	processed map[string]struct{}
	datasets  map[models.DocumentType]*models.RecordSet
}

// NewSession returns a session with empty datasets.
func NewSession(opts Options) *Session {
	s := &Session{opts: opts, log: opts.log()}
	s.Reset()
	return s
}

// Reset forgets all processed files and records.
func (s *Session) Reset() {
	s.processed = make(map[string]struct{})
	s.datasets = make(map[models.DocumentType]*models.RecordSet, len(models.DocumentTypes))
	for _, t := range models.DocumentTypes {
		s.datasets[t] = models.NewRecordSet(t)
	}
}

// Processed reports whether name was already extracted into the session.
func (s *Session) Processed(name string) bool {
	_, ok := s.processed[name]
	return ok
}

// Dataset returns a copy of the records accumulated for t.
func (s *Session) Dataset(t models.DocumentType) models.RecordSet {
	if ds, ok := s.datasets[t]; ok {
		return ds.Clone()
	}
	return models.RecordSet{Type: t}
}

// Datasets returns copies of the datasets produced by group, in export order.
func (s *Session) Datasets(group classify.Group) []models.RecordSet {
	types := group.Types()
	out := make([]models.RecordSet, 0, len(types))
	for _, t := range types {
		out = append(out, s.Dataset(t))
	}
	return out
}

// Process validates the names of a batch and extracts every accepted file in
// order. If any supported file fails the group's naming rule, nothing is
// extracted and a *NameValidationError is returned alongside the report.
func (s *Session) Process(ctx context.Context, group classify.Group, uploads []Upload) (*BatchReport, error) {
	report := &BatchReport{Group: group, Added: make(map[models.DocumentType]int)}

	names := make([]string, len(uploads))
	for i, u := range uploads {
		names[i] = u.Name
	}
	v := classify.ValidateBatch(group, names)

	for _, name := range v.Ignored {
		report.notice(models.LevelWarning, models.KindIgnoredExtension, name, "ignored non-Excel file")
	}
	if !v.OK() {
		for _, name := range v.Rejected {
			report.notice(models.LevelError, models.KindInvalidName, name, "file name does not match the naming rule")
		}
		s.log.Warn().Str("group", string(group)).Strs("files", v.Rejected).Msg("Rejected batch with invalid file names")
		return report, &NameValidationError{Group: group, Names: v.Rejected}
	}

	// Uploads sharing a name are queued so each accepted entry reads its own
	// bytes; Accepted keeps the upload order.
	pending := make(map[string][][]byte, len(uploads))
	for _, u := range uploads {
		pending[u.Name] = append(pending[u.Name], u.Data)
	}

	for _, f := range v.Accepted {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		queue := pending[f.Name]
		data := queue[0]
		pending[f.Name] = queue[1:]
		s.processFile(report, f, data)
	}
	return report, nil
}

func (s *Session) processFile(report *BatchReport, f classify.File, data []byte) {
	log := s.log.With().Str("file", f.Name).Str("type", string(f.Type)).Logger()

	if s.Processed(f.Name) {
		log.Info().Msg("Skipping duplicate file")
		report.notice(models.LevelInfo, models.KindDuplicate, f.Name, ErrDuplicateFile.Error())
		return
	}

	g, err := grid.Load(f.Name, data)
	if err != nil {
		rerr := NewReadError(f.Name, err)
		log.Error().Err(err).Msg("Failed to read spreadsheet")
		report.notice(models.LevelError, models.KindReadFailed, f.Name, rerr.Error())
		return
	}

	res, err := parser.Extract(f.Type, g, f.Name, s.opts.ParserOptions())
	if err != nil {
		log.Error().Err(err).Msg("Extraction failed")
		report.notice(models.LevelError, models.KindReadFailed, f.Name, err.Error())
		return
	}
	report.Notices = append(report.Notices, res.Warnings...)
	for _, w := range res.Warnings {
		log.Warn().Str("kind", string(w.Kind)).Msg(w.Message)
	}

	var records []models.Record
	for _, r := range res.Records {
		if !r.Blank() {
			records = append(records, r)
		}
	}
	if len(records) == 0 {
		log.Warn().Msg("No valid data found")
		report.notice(models.LevelWarning, models.KindEmptyExtraction, f.Name, ErrEmptyExtraction.Error())
		return
	}

	s.processed[f.Name] = struct{}{}
	s.datasets[f.Type].Append(records...)
	report.Added[f.Type] += len(records)

	ev := log.Info().Int("rows", len(records))
	if res.Tier > 0 {
		ev = ev.Int("tier", res.Tier)
	}
	ev.Msg("Extracted file")
	report.notice(models.LevelInfo, models.KindExtracted, f.Name, fmt.Sprintf("extracted %d rows", len(records)))
}

// Sheets returns the non-empty datasets of group as workbook sheets.
func (s *Session) Sheets(group classify.Group) []output.Sheet {
	var sheets []output.Sheet
	for _, ds := range s.Datasets(group) {
		if ds.Empty() {
			continue
		}
		sheets = append(sheets, output.Sheet{Name: ds.Type.SheetName(), Set: ds})
	}
	return sheets
}

// WriteReport writes the workbook of group to w. GroupAuto bundles every
// non-empty dataset into the consolidated report.
func (s *Session) WriteReport(w io.Writer, group classify.Group) error {
	sheets := s.Sheets(group)
	if len(sheets) == 0 {
		return ErrNoData
	}
	return output.WriteWorkbook(w, sheets)
}
