package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/coursecraft/lms/internal/authoring"
	"github.com/coursecraft/lms/internal/curriculum"
	"github.com/coursecraft/lms/internal/models"
)

var errUsage = errors.New("invalid usage")

// app runs the CLI commands against the authoring service and course directory
type app struct {
	authoring *authoring.Service
	directory *authoring.Directory
	out       io.Writer
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "list":
		return a.list(ctx)
	case "delete":
		return a.delete(ctx, args)
	case "create":
		return a.create(ctx, args)
	case "import":
		return a.importVideos(ctx, args)
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func (a *app) list(ctx context.Context) error {
	courses, err := a.directory.Refresh(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTUDENTS\tREVENUE\tPUBLISHED")
	for _, course := range courses {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%t\n",
			course.ID, course.Title, course.StudentCount, course.Revenue(), course.IsPublished)
	}
	return tw.Flush()
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.String("id", "", "course id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("%w: -id is required", errUsage)
	}

	if err := a.directory.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "course %s deleted\n", *id)
	return nil
}

func (a *app) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	landingPath := fs.String("landing", "", "path to the landing page JSON")
	free := fs.Int("free", 1, "number of leading lectures offered as free preview")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *landingPath == "" {
		return fmt.Errorf("%w: -landing is required", errUsage)
	}

	landing, err := readLanding(*landingPath)
	if err != nil {
		return err
	}

	draft := a.authoring.NewDraft()
	draft.Landing = landing
	return a.fillAndSubmit(ctx, draft, fs.Args(), *free)
}

func (a *app) importVideos(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	id := fs.String("id", "", "course id")
	free := fs.Int("free", 0, "number of imported lectures offered as free preview")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("%w: -id is required", errUsage)
	}

	draft, err := a.authoring.Edit(ctx, *id)
	if err != nil {
		return err
	}
	return a.fillAndSubmit(ctx, draft, fs.Args(), *free)
}

// fillAndSubmit imports the videos into the draft, marks the first free imported
// lectures as previews and submits the course
func (a *app) fillAndSubmit(ctx context.Context, draft *authoring.Draft, paths []string, free int) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: at least one video is required", errUsage)
	}

	draft.Curriculum.Subscribe(a.printProgress)

	var imported []curriculum.Entry
	for start := 0; start < len(paths); start += models.MaxBulkUploadFiles {
		end := min(start+models.MaxBulkUploadFiles, len(paths))
		entries, err := importChunk(ctx, draft.Curriculum, paths[start:end])
		if err != nil {
			return err
		}
		imported = append(imported, entries...)
	}

	for i, entry := range imported {
		if i >= free {
			break
		}
		index := indexOfKey(draft.Curriculum.Snapshot().Entries, entry.Key)
		if err := draft.Curriculum.SetFreePreview(index, true); err != nil {
			return err
		}
	}

	course, err := a.authoring.Submit(ctx, draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\ncourse %s saved with %d lectures\n", course.ID, len(course.Curriculum))
	return nil
}

func (a *app) printProgress(snapshot curriculum.Snapshot) {
	if snapshot.Uploading {
		fmt.Fprintf(a.out, "\ruploading... %3.0f%%", snapshot.Progress*100)
	}
}

// importChunk opens up to models.MaxBulkUploadFiles videos and bulk imports them
func importChunk(ctx context.Context, editor *curriculum.Editor, paths []string) ([]curriculum.Entry, error) {
	files := make([]models.MediaFile, 0, len(paths))
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		files = append(files, models.MediaFile{Name: filepath.Base(path), Content: f})
	}
	return editor.BulkImport(ctx, files)
}

func readLanding(path string) (models.Landing, error) {
	var landing models.Landing
	data, err := os.ReadFile(path)
	if err != nil {
		return landing, fmt.Errorf("failed to read landing: %w", err)
	}
	if err := json.Unmarshal(data, &landing); err != nil {
		return landing, fmt.Errorf("failed to parse landing: %w", err)
	}
	return landing, nil
}

func indexOfKey(entries []curriculum.Entry, key string) int {
	for i, entry := range entries {
		if entry.Key == key {
			return i
		}
	}
	return -1
}
