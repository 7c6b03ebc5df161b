package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LocialWang/coze-word-upload-plugin/internal/config"
	"github.com/LocialWang/coze-word-upload-plugin/internal/extract"
	"github.com/LocialWang/coze-word-upload-plugin/internal/model"
	"github.com/LocialWang/coze-word-upload-plugin/internal/repository"
	"github.com/LocialWang/coze-word-upload-plugin/internal/storage"
)

// WordMIMEType is the content type of Word Open XML documents.
const WordMIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var (
	ErrFileRequired     = errors.New("no document file provided")
	ErrInvalidFileType  = errors.New("only .docx Word documents are supported")
	ErrFileTooLarge     = errors.New("file exceeds the upload size limit")
	ErrExtractionFailed = errors.New("document text extraction failed")
	ErrNotFound         = errors.New("document not found")
	ErrDeletionFailed   = errors.New("document deletion failed")
)

// DocumentService defines the use cases for uploaded Word documents.
type DocumentService interface {
	// Upload validates the file, stages it, extracts its text, stores the
	// file and inserts the record. Validation failures happen before any
	// side effect; a failed repository insert rolls the stored file back.
	Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.Document, error)

	// Get returns one record by its identifier.
	Get(ctx context.Context, id string) (*model.Document, error)

	// List returns all records as summaries (no content), insertion order.
	List(ctx context.Context) ([]model.DocumentSummary, error)

	// Delete removes the stored file and then the record. If the file
	// cannot be removed the record stays so the client can retry.
	Delete(ctx context.Context, id string) error
}

type documentService struct {
	store     storage.Storage
	repo      repository.DocumentRepository
	extractor extract.Extractor
	cfg       config.UploadConfig
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, ex extract.Extractor, cfg config.UploadConfig) DocumentService {
	return &documentService{store: store, repo: repo, extractor: ex, cfg: cfg}
}

// acceptable reports whether the upload declares the Word MIME type or
// carries a .docx extension (case-insensitive).
func acceptable(contentType, filename string) bool {
	return contentType == WordMIMEType || strings.HasSuffix(strings.ToLower(filename), ".docx")
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, originalFilename string, contentType string, size int64) (*model.Document, error) {
	if r == nil {
		return nil, ErrFileRequired
	}
	if s.cfg.MaxBytes > 0 && size > s.cfg.MaxBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, size, s.cfg.MaxBytes)
	}
	if !acceptable(contentType, originalFilename) {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidFileType, originalFilename)
	}

	// The identifier doubles as the storage filename stem; the client name is
	// never used for paths.
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if ext == "" {
		ext = ".docx"
	}
	key := id + ext

	staged := filepath.Join(s.cfg.StagingDir, key)
	written, err := writeFile(staged, r)
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	keepStaged := false
	defer func() {
		if !keepStaged {
			os.Remove(staged)
		}
	}()

	extractCtx := ctx
	if s.cfg.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		extractCtx, cancel = context.WithTimeout(ctx, s.cfg.ExtractTimeout)
		defer cancel()
	}
	text, err := s.extractor.Text(extractCtx, staged)
	if err != nil {
		if s.cfg.KeepFailed {
			keepStaged = true
		}
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	f, err := os.Open(staged)
	if err != nil {
		return nil, fmt.Errorf("reopen staged upload: %w", err)
	}
	info, err := s.store.Put(ctx, key, f, storage.PutObjectOptions{
		Size:        written,
		ContentType: WordMIMEType,
		Metadata:    map[string]string{"original-filename": originalFilename},
	})
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	doc := &model.Document{
		ID:          id,
		Filename:    originalFilename,
		Content:     text,
		WordCount:   extract.WordCount(text),
		UploadedAt:  time.Now().UTC(),
		StoragePath: info.Key,
	}
	if err := s.repo.Insert(ctx, doc); err != nil {
		// Roll back the stored file so a failed insert leaks nothing.
		if delErr := s.store.Delete(ctx, info.Key); delErr != nil {
			return nil, fmt.Errorf("record insert failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("record insert failed: %w", err)
	}
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context) ([]model.DocumentSummary, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]model.DocumentSummary, 0, len(docs))
	for i := range docs {
		summaries = append(summaries, docs[i].Summary())
	}
	return summaries, nil
}

func (s *documentService) Delete(ctx context.Context, id string) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	// File first, record second: if the file cannot be removed the record
	// stays, so the failure is visible and a retry remains possible.
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("%w: %v", ErrDeletionFailed, err)
	}
	return s.repo.Delete(ctx, id)
}

func writeFile(path string, r io.Reader) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return 0, err
	}
	return n, nil
}
