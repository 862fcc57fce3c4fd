package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/rag-pipeline/config"
	"github.com/fyerfyer/rag-pipeline/internal/cache"
	"github.com/fyerfyer/rag-pipeline/internal/document"
	"github.com/fyerfyer/rag-pipeline/internal/embedding"
	"github.com/fyerfyer/rag-pipeline/internal/llm"
	"github.com/fyerfyer/rag-pipeline/internal/models"
	"github.com/fyerfyer/rag-pipeline/internal/repository"
	"github.com/fyerfyer/rag-pipeline/internal/vectordb"
)

// 面向用户的固定回复
const (
	// EmptyQuestionMessage 问题为空时的回复
	EmptyQuestionMessage = "Por favor, insira uma pergunta."
	// AnswerErrorMessage 回答过程中出错时的回复
	AnswerErrorMessage = "Desculpe, ocorreu um erro ao processar sua pergunta."
	// SeedText 新集合中占位记录的文本
	SeedText = "Inicialização"
)

// State 流水线生命周期状态
type State string

const (
	StateUninitialized      State = "uninitialized"
	StateValidatingConfig   State = "validating-config"
	StateOpeningStore       State = "opening-store"
	StateEnsuringCollection State = "ensuring-collection"
	StateReady              State = "ready"
)

// InitError 初始化失败，Stage为失败时所处的状态
type InitError struct {
	Stage State
	Err   error
}

// Error 实现error接口
func (e *InitError) Error() string {
	return fmt.Sprintf("pipeline initialization failed at %s: %v", e.Stage, e.Err)
}

// Unwrap 支持errors.Is/As
func (e *InitError) Unwrap() error {
	return e.Err
}

// FileFailure 单个文件加载失败的记录
type FileFailure struct {
	Path string
	Err  error
}

// IngestReport 一次入库的结果
type IngestReport struct {
	Files    int           // 成功加载的文件数
	Segments int           // 加载出的片段数
	Chunks   int           // 写入向量库的块数
	Failures []FileFailure // 被跳过的文件
}

// QueuedFile 已登记入库记录、等待异步处理的文件
type QueuedFile struct {
	RecordID string
	Path     string
}

// QAResult 带来源的回答
type QAResult struct {
	Question string
	Answer   string
	Sources  []llm.SourceReference
}

// Pipeline 入库与问答流水线
// 进程内只创建一个，由HTTP接口、命令行和队列消费者共享
type Pipeline struct {
	cfg    *config.Config
	logger *logrus.Logger
	state  State

	store         vectordb.Repository
	embedder      embedding.Client // 入库使用
	queryEmbedder embedding.Client // 问答使用，可能带缓存
	batch         embedding.BatchProcessor
	rag           *llm.RAGService
	loaders       *document.Factory
	splitter      document.Splitter
	queryCache    cache.Cache
	ingestRepo    repository.IngestionRepository

	collection string
	topK       int
}

// PipelineOption 流水线配置选项
type PipelineOption func(*Pipeline)

// WithLogger 设置日志
func WithLogger(logger *logrus.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithIngestionRepository 设置入库记录仓储
func WithIngestionRepository(repo repository.IngestionRepository) PipelineOption {
	return func(p *Pipeline) {
		p.ingestRepo = repo
	}
}

// WithSplitter 替换默认的文本分段器
func WithSplitter(splitter document.Splitter) PipelineOption {
	return func(p *Pipeline) {
		p.splitter = splitter
	}
}

// NewPipeline 依次校验配置、打开向量库、确保集合存在
// 任何一步失败都返回*InitError，调用方应视为致命错误
func NewPipeline(ctx context.Context, cfg *config.Config, deps Dependencies, opts ...PipelineOption) (*Pipeline, error) {
	p := &Pipeline{
		cfg:    cfg,
		logger: logrus.StandardLogger(),
		state:  StateUninitialized,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.state = StateValidatingConfig
	if err := cfg.Validate(); err != nil {
		return nil, p.fail(err)
	}
	p.collection = cfg.CollectionName
	p.topK = cfg.VectorDB.TopK

	p.state = StateOpeningStore
	if err := p.openComponents(deps); err != nil {
		p.release()
		return nil, p.fail(err)
	}

	p.state = StateEnsuringCollection
	if err := p.ensureCollection(ctx); err != nil {
		p.release()
		return nil, p.fail(err)
	}

	p.state = StateReady
	p.logger.WithFields(logrus.Fields{
		"collection": p.collection,
		"store":      cfg.VectorDB.Type,
		"embedder":   p.embedder.Name(),
		"model":      cfg.ModelName,
	}).Info("RAG pipeline ready")
	return p, nil
}

func (p *Pipeline) fail(err error) error {
	p.logger.WithFields(logrus.Fields{
		"stage": p.state,
		"error": err.Error(),
	}).Error("Pipeline initialization failed")
	return &InitError{Stage: p.state, Err: err}
}

// openComponents 调用各个构造函数
func (p *Pipeline) openComponents(deps Dependencies) error {
	if deps.NewEmbedder == nil || deps.NewLLM == nil || deps.NewStore == nil {
		return errors.New("embedder, llm and store factories are required")
	}

	embedder, err := deps.NewEmbedder(p.cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedding client: %w", err)
	}
	p.embedder = embedder
	p.queryEmbedder = embedder
	p.batch = embedding.NewBatchProcessor(embedder, p.cfg.Embed.BatchSize, p.cfg.Embed.Workers)

	if deps.NewCache != nil {
		c, err := deps.NewCache(p.cfg)
		if err != nil {
			return fmt.Errorf("failed to create cache: %w", err)
		}
		if c != nil {
			p.queryCache = c
			p.queryEmbedder = embedding.NewCachedClient(embedder, c, p.cfg.Cache.TTL, p.logger)
		}
	}

	llmClient, err := deps.NewLLM(p.cfg)
	if err != nil {
		return fmt.Errorf("failed to create llm client: %w", err)
	}
	p.rag = llm.NewRAG(llmClient,
		llm.WithRAGMaxTokens(p.cfg.LLM.MaxTokens),
		llm.WithRAGTemperature(p.cfg.LLM.Temperature),
		llm.WithRAGTimeout(p.cfg.LLM.Timeout),
	)

	factoryCfg := document.FactoryConfig{
		VideoLanguage: p.cfg.Media.VideoLanguage,
		Logger:        p.logger,
	}
	if deps.NewTranscriber != nil {
		if factoryCfg.Transcriber, err = deps.NewTranscriber(p.cfg); err != nil {
			return fmt.Errorf("failed to create transcriber: %w", err)
		}
	}
	if deps.NewExtractor != nil {
		if factoryCfg.Extractor, err = deps.NewExtractor(p.cfg); err != nil {
			return fmt.Errorf("failed to create audio extractor: %w", err)
		}
	}
	p.loaders = document.NewFactory(factoryCfg)

	if p.splitter == nil {
		p.splitter = document.NewTextSplitter(document.SplitterConfig{
			ChunkSize:    p.cfg.ChunkSize,
			ChunkOverlap: p.cfg.ChunkOverlap,
		})
	}

	store, err := deps.NewStore(p.cfg)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	p.store = store
	return nil
}

// ensureCollection 集合不存在时创建并写入一条占位记录
func (p *Pipeline) ensureCollection(ctx context.Context) error {
	exists, err := p.store.CollectionExists(ctx, p.collection)
	if err != nil {
		return err
	}
	if exists {
		p.logger.WithField("collection", p.collection).Info("Using existing collection")
		return nil
	}

	vector, err := p.embedder.Embed(ctx, SeedText)
	if err != nil {
		return fmt.Errorf("failed to embed seed record: %w", err)
	}
	if err := p.store.CreateCollection(ctx, p.collection, len(vector)); err != nil {
		return err
	}

	seed := vectordb.Document{
		ID:       uuid.New().String(),
		Text:     SeedText,
		Vector:   vector,
		Metadata: map[string]interface{}{},
	}
	if err := p.store.AddBatch(ctx, p.collection, []vectordb.Document{seed}); err != nil {
		return fmt.Errorf("failed to seed collection: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"collection": p.collection,
		"dimension":  len(vector),
	}).Info("Collection created and seeded")
	return nil
}

// State 返回当前生命周期状态
func (p *Pipeline) State() State {
	return p.state
}

// Collection 返回集合名称
func (p *Pipeline) Collection() string {
	return p.collection
}

// Count 返回集合中的记录数
func (p *Pipeline) Count(ctx context.Context) (int, error) {
	return p.store.Count(ctx, p.collection)
}

// Loaders 返回文档加载器工厂
func (p *Pipeline) Loaders() *document.Factory {
	return p.loaders
}

// Close 释放向量库和缓存
func (p *Pipeline) Close() error {
	return p.release()
}

func (p *Pipeline) release() error {
	var errs []error
	if p.queryCache != nil {
		if err := p.queryCache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close cache: %w", err))
		}
	}
	if p.store != nil {
		if err := p.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close vector store: %w", err))
		}
	}
	return errors.Join(errs...)
}

// AddDocuments 加载、切分、向量化并写入文件
// 单个文件失败只记录并跳过；向量化或写入失败时返回错误
func (p *Pipeline) AddDocuments(ctx context.Context, paths []string) (*IngestReport, error) {
	files := make([]QueuedFile, len(paths))
	for i, path := range paths {
		files[i] = QueuedFile{Path: path}
	}
	return p.ingest(ctx, files)
}

// AddQueuedDocuments 处理异步队列中的文件，结果回写到已有的入库记录
func (p *Pipeline) AddQueuedDocuments(ctx context.Context, files []QueuedFile) (*IngestReport, error) {
	return p.ingest(ctx, files)
}

// loadedFile 已成功加载、等待写入向量库的文件
type loadedFile struct {
	file     QueuedFile
	segments int
}

func (p *Pipeline) ingest(ctx context.Context, files []QueuedFile) (report *IngestReport, err error) {
	report = &IngestReport{}
	var segments []document.Segment
	var loaded []loadedFile

	// 成功加载的文件在写入结束后才记录，写入失败时一并标记为失败
	defer func() {
		recordCtx := context.WithoutCancel(ctx)
		for _, lf := range loaded {
			if err != nil {
				p.recordOutcome(recordCtx, lf.file, 0, err)
				continue
			}
			p.recordOutcome(recordCtx, lf.file, lf.segments, nil)
		}
	}()

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("ingestion cancelled: %w", err)
		}

		p.logger.WithField("path", file.Path).Info("Loading file")
		segs, err := p.loaders.Load(ctx, file.Path)
		if err == nil && len(segs) == 0 {
			err = fmt.Errorf("%w: %s", document.ErrEmptyContent, file.Path)
		}
		if err != nil {
			p.recordOutcome(ctx, file, 0, err)
			p.logger.WithFields(logrus.Fields{
				"path":  file.Path,
				"error": err.Error(),
			}).Warn("Failed to load file, skipping")
			report.Failures = append(report.Failures, FileFailure{Path: file.Path, Err: err})
			continue
		}

		report.Files++
		segments = append(segments, segs...)
		loaded = append(loaded, loadedFile{file: file, segments: len(segs)})
	}

	report.Segments = len(segments)
	if len(segments) == 0 {
		p.logger.WithField("files", len(files)).Warn("No documents were loaded successfully")
		return report, nil
	}

	chunks, err := p.splitter.SplitSegments(segments)
	if err != nil {
		return report, fmt.Errorf("failed to split documents: %w", err)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := p.batch.Process(ctx, texts)
	if err != nil {
		return report, fmt.Errorf("failed to embed chunks: %w", err)
	}

	docs := make([]vectordb.Document, 0, len(chunks))
	now := time.Now()
	for i, c := range chunks {
		if vectors[i] == nil {
			continue
		}
		docs = append(docs, vectordb.Document{
			ID:        uuid.New().String(),
			Text:      c.Text,
			Vector:    vectors[i],
			Metadata:  c.Metadata,
			CreatedAt: now,
		})
	}

	if err := p.store.AddBatch(ctx, p.collection, docs); err != nil {
		return report, fmt.Errorf("failed to add documents to vector store: %w", err)
	}
	report.Chunks = len(docs)

	p.logger.WithFields(logrus.Fields{
		"files":    report.Files,
		"segments": report.Segments,
		"chunks":   report.Chunks,
		"failures": len(report.Failures),
	}).Info("Documents added to vector store")
	return report, nil
}

// recordOutcome 写入入库记录，失败只记录日志
func (p *Pipeline) recordOutcome(ctx context.Context, file QueuedFile, segments int, loadErr error) {
	if p.ingestRepo == nil {
		return
	}

	status := models.IngestStatusIngested
	errMsg := ""
	if loadErr != nil {
		status = models.IngestStatusFailed
		errMsg = loadErr.Error()
	}

	var err error
	if file.RecordID != "" {
		err = p.ingestRepo.UpdateStatus(ctx, file.RecordID, status, segments, errMsg)
	} else {
		strategy, _ := document.StrategyFor(file.Path)
		err = p.ingestRepo.Record(ctx, &models.IngestedFile{
			FileName:     filepath.Base(file.Path),
			FilePath:     file.Path,
			Strategy:     string(strategy),
			Status:       status,
			SegmentCount: segments,
			Error:        errMsg,
		})
	}
	if err != nil {
		p.logger.WithFields(logrus.Fields{
			"path":  file.Path,
			"error": err.Error(),
		}).Warn("Failed to record ingestion outcome")
	}
}

// Answer 回答问题，任何错误都转换为固定的道歉信息
func (p *Pipeline) Answer(ctx context.Context, question string) string {
	return p.AnswerWithSources(ctx, question).Answer
}

// AnswerWithSources 回答问题并返回检索到的来源
func (p *Pipeline) AnswerWithSources(ctx context.Context, question string) *QAResult {
	result := &QAResult{Question: question}
	if strings.TrimSpace(question) == "" {
		result.Answer = EmptyQuestionMessage
		return result
	}

	resp, err := p.answer(ctx, question)
	if err != nil {
		p.logger.WithFields(logrus.Fields{
			"question": question,
			"error":    err.Error(),
		}).Error("Failed to answer question")
		result.Answer = AnswerErrorMessage
		return result
	}

	result.Answer = resp.Answer
	result.Sources = resp.Sources
	return result
}

func (p *Pipeline) answer(ctx context.Context, question string) (*llm.RAGResponse, error) {
	vector, err := p.queryEmbedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	filter := vectordb.DefaultSearchFilter()
	if p.topK > 0 {
		filter.MaxResults = p.topK
	}
	results, err := p.store.Search(ctx, p.collection, vector, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search collection: %w", err)
	}

	contexts := make([]llm.RetrievedContext, len(results))
	for i, r := range results {
		contexts[i] = llm.RetrievedContext{
			ID:       r.Document.ID,
			Text:     r.Document.Text,
			Score:    r.Score,
			Metadata: r.Document.Metadata,
		}
	}

	p.logger.WithFields(logrus.Fields{
		"question": question,
		"contexts": len(contexts),
	}).Debug("Retrieved contexts")

	return p.rag.Answer(ctx, question, contexts)
}
