package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"api-page-gen/internal/bootstrap"
	"api-page-gen/internal/config"
	"api-page-gen/internal/dto"
	"api-page-gen/pkg/events"

	"github.com/fatih/color"
)

func main() {
	input := flag.String("input", "", "path to the record database JSON (overrides env)")
	output := flag.String("output", "", "output directory (overrides env)")
	templatePath := flag.String("template", "", "page template YAML (overrides env)")
	faqTemplatePath := flag.String("faq-templates", "", "FAQ template YAML (overrides env)")
	ids := flag.String("ids", "", "comma-separated record ids to process")
	maxRecords := flag.Int("max-records", 0, "cap on records processed (0 = all)")
	workers := flag.Int("workers", 0, "generation worker count (overrides env)")
	dryRun := flag.Bool("dry-run", false, "run without calling the completion service")
	noFAQs := flag.Bool("no-faqs", false, "skip FAQ assembly")
	maxFAQs := flag.Int("max-faqs", 0, "cap on FAQs per record (0 = all)")
	flag.Parse()

	// 1. Load Configuration, flags win over environment
	cfg := config.Load()
	if *output != "" {
		cfg.Pipeline.OutputDir = *output
	}
	if *templatePath != "" {
		cfg.Pipeline.TemplatePath = *templatePath
	}
	if *faqTemplatePath != "" {
		cfg.Pipeline.FAQTemplatePath = *faqTemplatePath
	}
	if *workers > 0 {
		cfg.Pipeline.MaxWorkers = *workers
	}
	if *maxFAQs > 0 {
		cfg.Pipeline.MaxFAQs = *maxFAQs
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Unable to bootstrap: %v", err)
	}
	defer container.HistoryDB.Close()
	defer container.Logger.Sync()

	// 3. Live progress on the terminal
	ctx := context.Background()
	err = container.Bus.Consume(ctx, events.TopicRecordCompleted, func(env events.Envelope) {
		recordId, _ := env.Data["record_id"].(string)
		status, _ := env.Data["description_status"].(string)
		switch status {
		case "success":
			color.Green("  ✔ %s", recordId)
		case "skipped":
			color.Yellow("  - %s (skipped)", recordId)
		default:
			color.Red("  ✘ %s (%s)", recordId, status)
		}
	})
	if err != nil {
		log.Printf("Progress consumer error: %v", err)
	}

	// 4. Build the run request
	req := &dto.RunRequest{
		InputPath:  *input,
		MaxRecords: *maxRecords,
	}
	if *ids != "" {
		for _, id := range strings.Split(*ids, ",") {
			if id = strings.TrimSpace(id); id != "" {
				req.RecordIds = append(req.RecordIds, id)
			}
		}
	}
	if *dryRun {
		req.DryRun = boolPtr(true)
	}
	if *noFAQs {
		req.GenerateFAQs = boolPtr(false)
	}

	// 5. Run the pipeline
	report, err := container.PipelineService.Run(ctx, req)
	if err != nil {
		color.Red("Pipeline failed: %v", err)
		log.Fatalf("Pipeline failed: %v", err)
	}

	// 6. Summary
	bold := color.New(color.Bold)
	bold.Printf("\nRun %s finished in %s\n", report.RunId, report.Duration)
	color.Cyan("Records:      %d", report.Records)
	color.Green("Descriptions: %d ok", report.Description.Success)
	if report.Description.Failed > 0 {
		color.Red("              %d failed", report.Description.Failed)
	}
	if report.Description.Skipped > 0 {
		color.Yellow("              %d skipped", report.Description.Skipped)
	}
	color.Cyan("Summaries:    %d ok / %d failed / %d skipped",
		report.Summary.Success, report.Summary.Failed, report.Summary.Skipped)
	color.Cyan("FAQs:         %d across %d records", report.FAQCount, report.FAQRecords)
	bold.Println("Outputs:")
	for _, path := range report.Outputs {
		color.White("  %s", path)
	}
}

func boolPtr(b bool) *bool { return &b }
