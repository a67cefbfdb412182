// Command curriculum manages an instructor's courses from the command line.
//
//	curriculum list
//	curriculum delete -id <course id>
//	curriculum create -landing landing.json [-free N] video...
//	curriculum import -id <course id> [-free N] video...
//
// Videos are uploaded in bulk, at most ten per request, and appended as lectures.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/coursecraft/lms/internal/apiclient"
	"github.com/coursecraft/lms/internal/authoring"
	"github.com/coursecraft/lms/internal/config"
	"github.com/coursecraft/lms/internal/courseclient"
	"github.com/coursecraft/lms/internal/logger"
	"github.com/coursecraft/lms/internal/mediaclient"
	"github.com/coursecraft/lms/internal/models"
	"go.uber.org/zap"
)

const usage = `usage: curriculum <command> [flags]

commands:
  list                                      list your courses
  delete -id ID                             delete a course
  create -landing FILE [-free N] VIDEO...   create a course from landing JSON and videos
  import -id ID [-free N] VIDEO...          append videos to an existing course
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	api, err := apiclient.New(apiclient.Options{
		BaseURL:    cfg.APIBaseURL,
		Token:      cfg.APIToken,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		Logger:     logger.Logger,
	})
	if err != nil {
		logger.Logger.Fatal("Failed to create API client", zap.Error(err))
	}

	courses := courseclient.New(api)
	instructor := models.Identity{
		UserID:   cfg.InstructorID,
		UserName: cfg.InstructorName,
		Role:     models.RoleInstructor,
	}

	cli := &app{
		authoring: authoring.NewService(courses, mediaclient.New(api), instructor, logger.Logger),
		directory: authoring.NewDirectory(courses, logger.Logger),
		out:       os.Stdout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		logger.Sync()
		os.Exit(1)
	}
}
