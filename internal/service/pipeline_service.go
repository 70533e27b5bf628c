package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"api-page-gen/internal/config"
	"api-page-gen/internal/dto"
	"api-page-gen/internal/history"
	"api-page-gen/internal/pkg/logger"
	"api-page-gen/pkg/completion"
	"api-page-gen/pkg/events"
	"api-page-gen/pkg/export"
	"api-page-gen/pkg/faq"
	"api-page-gen/pkg/generate"
	"api-page-gen/pkg/page"
	"api-page-gen/pkg/record"
	"api-page-gen/pkg/template"

	"github.com/google/uuid"
)

type IPipelineService interface {
	Run(ctx context.Context, req *dto.RunRequest) (*dto.RunReport, error)
	Template() *template.Definition
	SetTemplate(def *template.Definition) error
	Runs(ctx context.Context, limit, offset int) ([]history.Run, error)
	RunDetail(ctx context.Context, id string) (*history.Run, []history.RunRecord, error)
}

type pipelineService struct {
	cfg          *config.Config
	client       completion.Client
	policy       completion.Policy
	logger       logger.ILogger
	bus          *events.Bus
	store        *history.Store
	faqTemplates []faq.Template

	mu  sync.Mutex
	def *template.Definition
}

func NewPipelineService(
	cfg *config.Config,
	client completion.Client,
	sysLogger logger.ILogger,
	bus *events.Bus,
	store *history.Store,
) (IPipelineService, error) {
	// 1. Load the page template. A broken template is fatal: no page can
	// compile without one.
	def := template.Default()
	if cfg.Pipeline.TemplatePath != "" {
		loaded, err := template.Load(cfg.Pipeline.TemplatePath)
		if err != nil {
			return nil, fmt.Errorf("load page template: %w", err)
		}
		def = loaded
	}

	// 2. Load the FAQ template set, builtin unless overridden.
	faqTemplates := faq.BuiltinTemplates()
	if cfg.Pipeline.FAQTemplatePath != "" {
		loaded, err := faq.LoadTemplates(cfg.Pipeline.FAQTemplatePath)
		if err != nil {
			return nil, fmt.Errorf("load faq templates: %w", err)
		}
		faqTemplates = loaded
	}

	policy := completion.DefaultPolicy()
	policy.MaxRetries = cfg.Pipeline.MaxRetries
	policy.BaseDelay = time.Duration(cfg.Pipeline.BaseDelayMillis) * time.Millisecond

	if sysLogger == nil {
		sysLogger = logger.NewNop()
	}

	return &pipelineService{
		cfg:          cfg,
		client:       client,
		policy:       policy,
		logger:       sysLogger,
		bus:          bus,
		store:        store,
		faqTemplates: faqTemplates,
		def:          def,
	}, nil
}

// Run executes one full pipeline pass: load records, generate content,
// compile pages, assemble FAQs, write exports, record history.
func (s *pipelineService) Run(ctx context.Context, req *dto.RunRequest) (*dto.RunReport, error) {
	runId := uuid.New().String()
	startedAt := time.Now()

	if req == nil {
		req = &dto.RunRequest{}
	}
	inputPath := s.cfg.Pipeline.InputPath
	if req.InputPath != "" {
		inputPath = req.InputPath
	}
	maxRecords := s.cfg.Pipeline.MaxRecords
	if req.MaxRecords > 0 {
		maxRecords = req.MaxRecords
	}
	dryRun := s.cfg.Pipeline.DryRun
	if req.DryRun != nil {
		dryRun = *req.DryRun
	}
	withFAQs := s.cfg.Pipeline.GenerateFAQs
	if req.GenerateFAQs != nil {
		withFAQs = *req.GenerateFAQs
	}

	// 1. Load and filter the record store.
	store, err := record.LoadStore(inputPath)
	if err != nil {
		s.recordFailedRun(ctx, runId, startedAt, err)
		return nil, fmt.Errorf("load records: %w", err)
	}
	store = store.Filter(req.RecordIds, maxRecords)
	recs := store.All()

	s.logger.Info("pipeline", "run started", map[string]interface{}{
		"run_id":  runId,
		"records": len(recs),
		"dry_run": dryRun,
		"input":   inputPath,
	})
	s.publish(events.NewRunStarted(runId, len(recs)))

	// 2. Open the prompt audit log when configured.
	promptLog, err := generate.OpenPromptLog(s.cfg.Pipeline.PromptLogPath)
	if err != nil {
		s.logger.Warn("pipeline", "prompt log unavailable", map[string]interface{}{"error": err.Error()})
	}
	defer promptLog.Close()

	// 3. Generate content across the worker pool. Dry runs swap in a static
	// client so the rest of the pipeline still runs end to end.
	client := s.client
	if dryRun {
		client = &completion.StaticClient{Text: "Dry-run content placeholder."}
	}

	orch := generate.NewOrchestrator(client, s.policy, generate.Config{
		MaxWorkers:           s.cfg.Pipeline.MaxWorkers,
		DescriptionMaxTokens: s.cfg.Pipeline.DescTokens,
		SummaryMaxTokens:     s.cfg.Pipeline.SummaryTokens,
		SentenceMaxTokens:    s.cfg.Pipeline.SentenceTokens,
		OnRecord: func(content *generate.Content) {
			s.publish(events.NewRecordCompleted(runId, content.RecordId, string(content.Description.Status)))
		},
	}, s.logger, promptLog)

	var batch *generate.BatchResult
	if s.cfg.Pipeline.GenerateContent {
		batch = orch.GenerateBatch(ctx, recs)
	} else {
		batch = &generate.BatchResult{Results: make([]*generate.Content, len(recs))}
	}

	// 4. Compile one page model per record, in input order.
	def := s.Template()
	models := make([]*page.Model, len(recs))
	for i, rec := range recs {
		var resolver page.Resolver
		if batch.Results[i] != nil {
			resolver = batch.Results[i]
		}
		model, warnings := page.Compile(def, rec, resolver)
		models[i] = model
		for _, w := range warnings {
			s.logger.Warn("pipeline", "page compile warning", map[string]interface{}{
				"record_id": rec.Id,
				"node_id":   w.NodeId,
				"path":      w.Path,
				"reason":    w.Reason,
			})
		}
	}

	// 5. Assemble FAQs from the compiled pages and generated content.
	var faqs []faq.RecordFAQs
	if withFAQs {
		assembler := faq.NewAssembler(s.faqTemplates, client, s.policy, faq.Config{
			MaxWorkers: s.cfg.Pipeline.FAQWorkers,
			MaxFAQs:    s.cfg.Pipeline.MaxFAQs,
			MaxTokens:  s.cfg.Pipeline.FAQAnswerTokens,
		}, s.logger)

		inputs := make([]faq.BatchInput, len(recs))
		for i, rec := range recs {
			inputs[i] = faq.BatchInput{Record: rec, Model: models[i], Content: batch.Results[i]}
		}
		faqs = assembler.AssembleBatch(ctx, inputs)
	}

	// 6. Write the export artifacts.
	outputs, err := s.writeExports(store, recs, models, batch, faqs)
	if err != nil {
		s.recordFailedRun(ctx, runId, startedAt, err)
		return nil, err
	}

	// 7. Record run history.
	faqTotal := 0
	for _, rf := range faqs {
		faqTotal += len(rf.Items)
	}
	report := &dto.RunReport{
		RunId:       runId,
		Records:     len(recs),
		Description: batch.Description,
		Summary:     batch.Summary,
		Sentence:    batch.Sentence,
		FAQRecords:  len(faqs),
		FAQCount:    faqTotal,
		Duration:    time.Since(startedAt).Round(time.Millisecond).String(),
		Outputs:     outputs,
	}
	if err := s.saveRun(ctx, runId, startedAt, recs, batch, faqs); err != nil {
		// History is bookkeeping; a failed insert must not fail the run.
		s.logger.Error("pipeline", "failed to save run history", map[string]interface{}{
			"run_id": runId,
			"error":  err.Error(),
		})
	}

	s.publish(events.NewRunFinished(runId, batch.Description.Success, batch.Description.Failed, batch.Description.Skipped))
	s.logger.Info("pipeline", "run finished", map[string]interface{}{
		"run_id":   runId,
		"duration": report.Duration,
		"faqs":     faqTotal,
	})
	return report, nil
}

func (s *pipelineService) writeExports(
	store *record.Store,
	recs []*record.Record,
	models []*page.Model,
	batch *generate.BatchResult,
	faqs []faq.RecordFAQs,
) ([]string, error) {
	outDir := s.cfg.Pipeline.OutputDir

	var descriptions []export.Description
	for i, rec := range recs {
		content := batch.Results[i]
		if content == nil || content.Description.Status != generate.StatusSuccess {
			continue
		}
		descriptions = append(descriptions, export.Description{
			RecordId: rec.Id,
			Name:     rec.DisplayName(),
			Text:     content.Description.Text(),
		})
	}

	type artifact struct {
		name  string
		write func(string) error
	}
	artifacts := []artifact{
		{"database.json", func(p string) error { return export.WriteDatabase(p, store) }},
		{"api_pages.json", func(p string) error { return export.WritePages(p, models) }},
		{"api_descriptions.json", func(p string) error { return export.WriteDescriptions(p, descriptions) }},
		{"api_descriptions.xml", func(p string) error { return export.WriteDescriptionsXML(p, store, descriptions) }},
	}
	if len(faqs) > 0 {
		artifacts = append(artifacts, artifact{"api_faqs.json", func(p string) error { return export.WriteFAQs(p, faqs) }})
	}
	if s.cfg.Pipeline.WritePreviewHTML {
		faqsById := make(map[string][]faq.Item, len(faqs))
		for _, rf := range faqs {
			faqsById[rf.RecordId] = rf.Items
		}
		previews := make([]export.PreviewInput, len(recs))
		for i, rec := range recs {
			previews[i] = export.PreviewInput{Model: models[i], FAQs: faqsById[rec.Id]}
			if content := batch.Results[i]; content != nil && content.Summary.Status == generate.StatusSuccess {
				previews[i].Summary = content.Summary.Text
			}
		}
		artifacts = append(artifacts, artifact{"preview.html", func(p string) error { return export.WritePreview(p, previews) }})
	}

	outputs := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		path := filepath.Join(outDir, a.name)
		if err := a.write(path); err != nil {
			return nil, fmt.Errorf("write %s: %w", a.name, err)
		}
		outputs = append(outputs, path)
	}
	return outputs, nil
}

func (s *pipelineService) saveRun(
	ctx context.Context,
	runId string,
	startedAt time.Time,
	recs []*record.Record,
	batch *generate.BatchResult,
	faqs []faq.RecordFAQs,
) error {
	if s.store == nil {
		return nil
	}
	faqsById := make(map[string]int, len(faqs))
	faqTotal := 0
	for _, rf := range faqs {
		faqsById[rf.RecordId] = len(rf.Items)
		faqTotal += len(rf.Items)
	}

	records := make([]history.RunRecord, 0, len(recs))
	for i, rec := range recs {
		rr := history.RunRecord{RunId: runId, RecordId: rec.Id, FAQs: faqsById[rec.Id]}
		if content := batch.Results[i]; content != nil {
			rr.DescriptionStatus = string(content.Description.Status)
			rr.SummaryStatus = string(content.Summary.Status)
			rr.SentenceStatus = string(content.SummarySentence.Status)
		}
		records = append(records, rr)
	}

	return s.store.SaveRun(ctx, &history.Run{
		Id:                 runId,
		Status:             "completed",
		Records:            len(recs),
		DescriptionSuccess: batch.Description.Success,
		DescriptionFailed:  batch.Description.Failed,
		DescriptionSkipped: batch.Description.Skipped,
		FAQCount:           faqTotal,
		StartedAt:          startedAt,
		FinishedAt:         time.Now(),
	}, records)
}

func (s *pipelineService) recordFailedRun(ctx context.Context, runId string, startedAt time.Time, cause error) {
	if s.store == nil {
		return
	}
	err := s.store.SaveRun(ctx, &history.Run{
		Id:         runId,
		Status:     "failed",
		Error:      cause.Error(),
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}, nil)
	if err != nil {
		s.logger.Error("pipeline", "failed to record failed run", map[string]interface{}{
			"run_id": runId,
			"error":  err.Error(),
		})
	}
}

func (s *pipelineService) publish(evt events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(evt); err != nil {
		s.logger.Warn("pipeline", "event publish failed", map[string]interface{}{
			"event": evt.EventType(),
			"error": err.Error(),
		})
	}
}

// Template returns the active page template definition.
func (s *pipelineService) Template() *template.Definition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.def
}

// SetTemplate validates and swaps the active definition. Runs already in
// flight keep the definition they started with.
func (s *pipelineService) SetTemplate(def *template.Definition) error {
	if def == nil {
		return fmt.Errorf("template definition is required")
	}
	if err := def.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.def = def
	return nil
}

func (s *pipelineService) Runs(ctx context.Context, limit, offset int) ([]history.Run, error) {
	if s.store == nil {
		return []history.Run{}, nil
	}
	return s.store.ListRuns(ctx, limit, offset)
}

func (s *pipelineService) RunDetail(ctx context.Context, id string) (*history.Run, []history.RunRecord, error) {
	if s.store == nil {
		return nil, nil, history.ErrNotFound
	}
	return s.store.GetRun(ctx, id)
}
