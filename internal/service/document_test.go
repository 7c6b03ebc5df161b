package service

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/LocialWang/coze-word-upload-plugin/internal/config"
	extractMocks "github.com/LocialWang/coze-word-upload-plugin/internal/extract/mocks"
	"github.com/LocialWang/coze-word-upload-plugin/internal/model"
	"github.com/LocialWang/coze-word-upload-plugin/internal/repository"
	repoMocks "github.com/LocialWang/coze-word-upload-plugin/internal/repository/mocks"
	"github.com/LocialWang/coze-word-upload-plugin/internal/storage"
	storeMocks "github.com/LocialWang/coze-word-upload-plugin/internal/storage/mocks"
)

func uploadCfg(t *testing.T) config.UploadConfig {
	t.Helper()
	return config.UploadConfig{
		StagingDir:     t.TempDir(),
		MaxBytes:       10 << 20,
		ExtractTimeout: 5 * time.Second,
	}
}

func stagedFiles(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		cfg := uploadCfg(t)
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mEx := new(extractMocks.MockExtractor)

		mEx.On("Text", mock.Anything, mock.MatchedBy(func(path string) bool {
			return strings.HasPrefix(path, cfg.StagingDir) && strings.HasSuffix(path, ".docx")
		})).Return("hello   world", nil)

		mStore.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasSuffix(key, ".docx") && !strings.Contains(key, "report")
		}), mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
			return opt.ContentType == WordMIMEType && opt.Metadata["original-filename"] == "report.docx"
		})).Return(func(_ context.Context, key string, _ io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
			return storage.ObjectInfo{Key: key}
		}, nil)

		mRepo.On("Insert", mock.Anything, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.Filename == "report.docx" &&
				doc.Content == "hello   world" &&
				doc.WordCount == 2 &&
				doc.StoragePath != "" &&
				!doc.UploadedAt.IsZero()
		})).Return(nil)

		svc := NewDocumentService(mStore, mRepo, mEx, cfg)

		doc, err := svc.Upload(ctx, strings.NewReader("docx bytes"), "report.docx", WordMIMEType, 10)

		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.NotEmpty(t, doc.ID)
		assert.Equal(t, 2, doc.WordCount)
		assert.Empty(t, stagedFiles(t, cfg.StagingDir), "staging file must not survive upload")

		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
		mEx.AssertExpectations(t)
	})

	t.Run("nil reader", func(t *testing.T) {
		svc := NewDocumentService(nil, nil, nil, uploadCfg(t))

		_, err := svc.Upload(ctx, nil, "report.docx", WordMIMEType, 10)

		assert.ErrorIs(t, err, ErrFileRequired)
	})

	t.Run("file too large rejected before extraction", func(t *testing.T) {
		cfg := uploadCfg(t)
		mEx := new(extractMocks.MockExtractor)
		svc := NewDocumentService(nil, nil, mEx, cfg)

		_, err := svc.Upload(ctx, strings.NewReader("x"), "big.docx", WordMIMEType, cfg.MaxBytes+1)

		assert.ErrorIs(t, err, ErrFileTooLarge)
		assert.Empty(t, stagedFiles(t, cfg.StagingDir))
		mEx.AssertNotCalled(t, "Text", mock.Anything, mock.Anything)
	})

	t.Run("invalid file type leaves nothing behind", func(t *testing.T) {
		cfg := uploadCfg(t)
		svc := NewDocumentService(nil, nil, nil, cfg)

		_, err := svc.Upload(ctx, strings.NewReader("plain"), "notes.txt", "text/plain", 5)

		assert.ErrorIs(t, err, ErrInvalidFileType)
		assert.Empty(t, stagedFiles(t, cfg.StagingDir))
	})

	t.Run("word mime type accepted regardless of name", func(t *testing.T) {
		cfg := uploadCfg(t)
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mEx := new(extractMocks.MockExtractor)

		mEx.On("Text", mock.Anything, mock.Anything).Return("ok", nil)
		mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "k.bin"}, nil)
		mRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

		svc := NewDocumentService(mStore, mRepo, mEx, cfg)

		_, err := svc.Upload(ctx, strings.NewReader("x"), "document.bin", WordMIMEType, 1)

		assert.NoError(t, err)
	})

	t.Run("extraction failure removes staged file by default", func(t *testing.T) {
		cfg := uploadCfg(t)
		mEx := new(extractMocks.MockExtractor)
		mEx.On("Text", mock.Anything, mock.Anything).Return("", errors.New("broken archive"))

		svc := NewDocumentService(nil, nil, mEx, cfg)

		_, err := svc.Upload(ctx, strings.NewReader("junk"), "broken.docx", WordMIMEType, 4)

		assert.ErrorIs(t, err, ErrExtractionFailed)
		assert.Contains(t, err.Error(), "broken archive")
		assert.Empty(t, stagedFiles(t, cfg.StagingDir))
	})

	t.Run("extraction failure keeps staged file when configured", func(t *testing.T) {
		cfg := uploadCfg(t)
		cfg.KeepFailed = true
		mEx := new(extractMocks.MockExtractor)
		mEx.On("Text", mock.Anything, mock.Anything).Return("", errors.New("broken archive"))

		svc := NewDocumentService(nil, nil, mEx, cfg)

		_, err := svc.Upload(ctx, strings.NewReader("junk"), "broken.docx", WordMIMEType, 4)

		assert.ErrorIs(t, err, ErrExtractionFailed)
		assert.Len(t, stagedFiles(t, cfg.StagingDir), 1)
	})

	t.Run("storage error", func(t *testing.T) {
		cfg := uploadCfg(t)
		mStore := new(storeMocks.MockStorage)
		mEx := new(extractMocks.MockExtractor)

		mEx.On("Text", mock.Anything, mock.Anything).Return("text", nil)
		mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("disk full"))

		svc := NewDocumentService(mStore, nil, mEx, cfg)

		_, err := svc.Upload(ctx, strings.NewReader("x"), "a.docx", WordMIMEType, 1)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "store upload")
		assert.Empty(t, stagedFiles(t, cfg.StagingDir))
	})

	t.Run("insert failure rolls back stored file", func(t *testing.T) {
		cfg := uploadCfg(t)
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mEx := new(extractMocks.MockExtractor)

		mEx.On("Text", mock.Anything, mock.Anything).Return("text", nil)
		mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "k.docx"}, nil)
		mRepo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("insert fail"))
		mStore.On("Delete", mock.Anything, "k.docx").Return(nil)

		svc := NewDocumentService(mStore, mRepo, mEx, cfg)

		_, err := svc.Upload(ctx, strings.NewReader("x"), "a.docx", WordMIMEType, 1)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "record insert failed")
		mStore.AssertExpectations(t)
	})

	t.Run("insert failure with failed rollback reports both", func(t *testing.T) {
		cfg := uploadCfg(t)
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mEx := new(extractMocks.MockExtractor)

		mEx.On("Text", mock.Anything, mock.Anything).Return("text", nil)
		mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{Key: "k.docx"}, nil)
		mRepo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("insert fail"))
		mStore.On("Delete", mock.Anything, "k.docx").Return(errors.New("delete fail"))

		svc := NewDocumentService(mStore, mRepo, mEx, cfg)

		_, err := svc.Upload(ctx, strings.NewReader("x"), "a.docx", WordMIMEType, 1)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "rollback delete failed")
	})
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, "id-1").
			Return(&model.Document{ID: "id-1", Filename: "a.docx"}, nil)

		svc := NewDocumentService(nil, mRepo, nil, config.UploadConfig{})

		doc, err := svc.Get(ctx, "id-1")

		require.NoError(t, err)
		assert.Equal(t, "a.docx", doc.Filename)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, "ghost").Return(nil, repository.ErrNotFound)

		svc := NewDocumentService(nil, mRepo, nil, config.UploadConfig{})

		_, err := svc.Get(ctx, "ghost")

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := NewDocumentService(nil, new(repoMocks.MockDocumentRepository), nil, config.UploadConfig{})

		_, err := svc.Get(ctx, "")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	mRepo := new(repoMocks.MockDocumentRepository)
	mRepo.On("List", ctx).Return([]model.Document{
		{ID: "1", Filename: "a.docx", Content: "secret body", WordCount: 2},
		{ID: "2", Filename: "b.docx", Content: "other body", WordCount: 3},
	}, nil)

	svc := NewDocumentService(nil, mRepo, nil, config.UploadConfig{})

	summaries, err := svc.List(ctx)

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "1", summaries[0].ID)
	assert.Equal(t, 3, summaries[1].WordCount)
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success removes file then record", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)

		mRepo.On("FindByID", ctx, "id-1").
			Return(&model.Document{ID: "id-1", StoragePath: "id-1.docx"}, nil)
		mStore.On("Delete", ctx, "id-1.docx").Return(nil)
		mRepo.On("Delete", ctx, "id-1").Return(nil)

		svc := NewDocumentService(mStore, mRepo, nil, config.UploadConfig{})

		require.NoError(t, svc.Delete(ctx, "id-1"))
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)
		mRepo.On("FindByID", ctx, "ghost").Return(nil, repository.ErrNotFound)

		svc := NewDocumentService(mStore, mRepo, nil, config.UploadConfig{})

		assert.ErrorIs(t, svc.Delete(ctx, "ghost"), ErrNotFound)
		mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("file removal failure keeps record", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mRepo := new(repoMocks.MockDocumentRepository)

		mRepo.On("FindByID", ctx, "id-1").
			Return(&model.Document{ID: "id-1", StoragePath: "id-1.docx"}, nil)
		mStore.On("Delete", ctx, "id-1.docx").Return(errors.New("permission denied"))

		svc := NewDocumentService(mStore, mRepo, nil, config.UploadConfig{})

		err := svc.Delete(ctx, "id-1")

		assert.ErrorIs(t, err, ErrDeletionFailed)
		assert.Contains(t, err.Error(), "permission denied")
		mRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
