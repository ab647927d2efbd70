package ingest

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ersonp/historia/internal/domain/entities"
	"github.com/ersonp/historia/internal/domain/ports"
	"github.com/ersonp/historia/internal/domain/services"
	"github.com/ersonp/historia/internal/domain/taxonomy"
)

// textsSource is the run-report name of the classical-texts catalog.
const textsSource = "Perseus Digital Library"

// Texts ingests the Perseus canonical-greekLit repository as a catalog of
// sources and their authors. Catalog-only: the Greek text itself is not
// read, every source is created pending extraction.
type Texts struct {
	store   ports.Store
	log     *slog.Logger
	dataDir string
}

// NewTexts creates the classical-texts adapter reading from dataDir.
func NewTexts(store ports.Store, logger *slog.Logger, dataDir string) *Texts {
	return &Texts{store: store, log: logger, dataDir: dataDir}
}

// SourceName returns the human-readable name of the dataset.
func (t *Texts) SourceName() string { return textsSource }

// Ingest walks the author directories, creating one actor per author and
// one source per work. The limit caps works, not authors.
func (t *Texts) Ingest(ctx context.Context, opts Options) (*entities.RunReport, error) {
	report := entities.NewRunReport(textsSource)
	resolver := services.NewResolver(t.store, t.log, report)
	if err := resolver.Connect(ctx); err != nil {
		return report.Finish(), err
	}

	dataPath := filepath.Join(t.dataDir, "canonical-greekLit", "data")
	if _, err := os.Stat(dataPath); err != nil {
		return report.Finish(), fmt.Errorf(
			"canonical-greekLit not found at %s (clone from https://github.com/PerseusDL/canonical-greekLit): %w",
			dataPath, err)
	}

	authorDirs, err := os.ReadDir(dataPath)
	if err != nil {
		return report.Finish(), fmt.Errorf("reading author directories: %w", err)
	}
	t.log.Info("found author directories", "count", len(authorDirs))

	works := 0
	for _, dir := range authorDirs {
		if err := ctx.Err(); err != nil {
			return report.Finish(), err
		}
		if !dir.IsDir() {
			continue
		}
		if reached(opts.Limit, works) {
			break
		}

		count, err := t.processAuthor(ctx, resolver, filepath.Join(dataPath, dir.Name()), dir.Name(), opts.Limit-works)
		if err != nil {
			resolver.ReportError("processing author", err, "author", dir.Name())
			continue
		}
		works += count
	}

	t.log.Info("texts ingestion complete", "works", works)
	return report.Finish(), nil
}

// processAuthor creates the author's actor and one source per work
// directory, returning how many works were processed.
func (t *Texts) processAuthor(ctx context.Context, resolver *services.Resolver, authorDir, authorCode string, remaining int) (int, error) {
	info, known := taxonomy.LookupAuthor(authorCode)
	name := t.authorName(filepath.Join(authorDir, "__cts__.xml"), authorCode)

	kind := entities.ActorPerson
	if known && info.Kind != "" {
		kind = info.Kind
	}
	actor := entities.Actor{
		NamePrimary:         name,
		Type:                kind,
		RawTemporalEvidence: info.Dates,
		KnownBiases:         info.Biases,
		ExternalID:          "tlg:" + authorCode,
		Description:         "Ancient author. " + info.Dates,
	}
	actorID, err := resolver.CreateActor(ctx, &actor)
	if err != nil {
		return 0, err
	}

	workDirs, err := os.ReadDir(authorDir)
	if err != nil {
		return 0, fmt.Errorf("reading work directories: %w", err)
	}

	works := 0
	for _, dir := range workDirs {
		if !dir.IsDir() {
			continue
		}
		if remaining > 0 && works >= remaining {
			break
		}
		processed, err := t.processWork(ctx, resolver, filepath.Join(authorDir, dir.Name()), authorCode, name, actorID, info.Dates)
		if err != nil {
			resolver.ReportError("processing work", err, "work", dir.Name())
			continue
		}
		if processed {
			works++
		}
	}
	return works, nil
}

// processWork creates the source record for one work directory. A
// directory without usable CTS metadata is not a work.
func (t *Texts) processWork(ctx context.Context, resolver *services.Resolver, workDir, authorCode, authorName, actorID, authorDates string) (bool, error) {
	ctsPath := filepath.Join(workDir, "__cts__.xml")
	meta, err := parseWorkCTS(ctsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	title := meta.title()
	if title == "" {
		title = filepath.Base(workDir)
	}

	rawPeriod := ""
	if authorDates != "" {
		rawPeriod = "Written " + authorDates
	}
	src := entities.Source{
		Title:             title,
		Type:              entities.SourcePrimary,
		Genre:             taxonomy.MapGenre(title, authorName),
		AuthorID:          actorID,
		RawDatingEvidence: authorDates,
		RawPeriodCovered:  rawPeriod,
		OriginalLanguage:  languageName(meta.Lang),
		DigitalURL:        "https://scaife.perseus.org/reader/urn:cts:greekLit:" + authorCode,
		ExternalID:        "tlg:" + authorCode + "." + filepath.Base(workDir),
	}
	if _, err := resolver.CreateSource(ctx, &src); err != nil {
		return false, err
	}
	return true, nil
}

// authorName reads the group name from the author-level CTS file, falling
// back to the registry when the file is missing or nameless.
func (t *Texts) authorName(ctsPath, authorCode string) string {
	data, err := os.ReadFile(ctsPath)
	if err == nil {
		var group ctsTextGroup
		if xml.Unmarshal(data, &group) == nil {
			if name := group.name(); name != "" {
				return name
			}
		}
	}
	return taxonomy.AuthorName(authorCode)
}

// ctsTextGroup is the author-level __cts__.xml document.
type ctsTextGroup struct {
	GroupNames []ctsText `xml:"groupname"`
}

func (g *ctsTextGroup) name() string {
	for _, n := range g.GroupNames {
		if n.Lang == "eng" && n.Value != "" {
			return n.Value
		}
	}
	for _, n := range g.GroupNames {
		if n.Value != "" {
			return n.Value
		}
	}
	return ""
}

// ctsWork is the work-level __cts__.xml document.
type ctsWork struct {
	URN    string    `xml:"urn,attr"`
	Lang   string    `xml:"lang,attr"`
	Titles []ctsText `xml:"title"`
}

type ctsText struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

// title prefers the English title, then any non-empty one.
func (w *ctsWork) title() string {
	for _, t := range w.Titles {
		if t.Lang == "eng" && t.Value != "" {
			return t.Value
		}
	}
	for _, t := range w.Titles {
		if t.Value != "" {
			return t.Value
		}
	}
	return ""
}

func parseWorkCTS(path string) (*ctsWork, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var work ctsWork
	if err := xml.Unmarshal(data, &work); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if work.Lang == "" {
		work.Lang = "grc"
	}
	return &work, nil
}

// languageName expands CTS language codes for the catalog record.
func languageName(code string) string {
	switch code {
	case "grc":
		return "Ancient Greek"
	case "lat":
		return "Latin"
	default:
		return code
	}
}
