package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shutterdesk/shutterdesk-api/internal/observability"
)

var (
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the file is not an image.
	ErrUploadTypeNotAllowed = errors.New("file type not allowed")
	// ErrUploadMissing indicates no file accompanied the request.
	ErrUploadMissing = errors.New("file is required")
)

// FileStorage abstracts where image bytes land (local disk, Cloudinary).
// Upload returns the stored path or URL; Remove is best-effort cleanup.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
	Remove(ctx context.Context, storedPath string) error
}

// MediaStore validates incoming image uploads and writes them through the
// configured storage backend. Thumbnails are stored as byte-identical copies
// of the original under a separate prefix.
type MediaStore struct {
	storage FileStorage
	maxSize int64
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// NewMediaStore constructs the media helper.
func NewMediaStore(storage FileStorage, maxSizeMB int, logger zerolog.Logger) *MediaStore {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &MediaStore{
		storage: storage,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		logger:  logger.With().Str("component", "media_store").Logger(),
		tracer:  otel.Tracer("github.com/shutterdesk/shutterdesk-api/internal/service/media"),
	}
}

// StoreImage validates and stores a single image under the given prefix.
func (m *MediaStore) StoreImage(ctx context.Context, prefix string, file *multipart.FileHeader) (string, error) {
	payload, ext, err := m.readImage(ctx, file)
	if err != nil {
		return "", err
	}

	name := path.Join(prefix, uuid.NewString()+ext)
	stored, err := m.storage.Upload(ctx, name, bytes.NewReader(payload))
	if err != nil {
		observability.UploadRejected().WithLabelValues("storage").Inc()
		return "", err
	}

	observability.UploadRequests().WithLabelValues("image").Inc()
	return stored, nil
}

// StoreImageWithThumbnail stores the image and a byte-identical thumbnail copy.
func (m *MediaStore) StoreImageWithThumbnail(ctx context.Context, file *multipart.FileHeader) (string, string, error) {
	payload, ext, err := m.readImage(ctx, file)
	if err != nil {
		return "", "", err
	}

	base := uuid.NewString() + ext
	stored, err := m.storage.Upload(ctx, path.Join("photos", base), bytes.NewReader(payload))
	if err != nil {
		observability.UploadRejected().WithLabelValues("storage").Inc()
		return "", "", err
	}

	thumb, err := m.storage.Upload(ctx, path.Join("thumbnails", base), bytes.NewReader(payload))
	if err != nil {
		observability.UploadRejected().WithLabelValues("storage").Inc()
		_ = m.storage.Remove(ctx, stored)
		return "", "", err
	}

	observability.UploadRequests().WithLabelValues("image").Inc()
	return stored, thumb, nil
}

// Remove deletes a stored file, logging rather than propagating failures.
func (m *MediaStore) Remove(ctx context.Context, storedPath string) {
	if storedPath == "" {
		return
	}
	if err := m.storage.Remove(ctx, storedPath); err != nil {
		m.logger.Warn().Err(err).Str("path", storedPath).Msg("failed to remove stored file")
	}
}

// readImage enforces the size cap and image-only MIME policy before any byte
// reaches storage.
func (m *MediaStore) readImage(ctx context.Context, file *multipart.FileHeader) ([]byte, string, error) {
	_, span := m.tracer.Start(ctx, "media.validate")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.UploadLatency().Observe(time.Since(start).Seconds())
	}()

	if file == nil {
		span.SetStatus(codes.Error, "missing file")
		return nil, "", ErrUploadMissing
	}
	span.SetAttributes(
		attribute.String("upload.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("upload.request_size", file.Size),
	)

	if file.Size > m.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		span.SetStatus(codes.Error, "payload too large")
		return nil, "", ErrUploadTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return nil, "", err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, m.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return nil, "", err
	}
	if int64(buf.Len()) > m.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		span.SetStatus(codes.Error, "payload too large")
		return nil, "", ErrUploadTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	span.SetAttributes(attribute.String("upload.detected_mime", mime.String()))
	if !strings.HasPrefix(mime.String(), "image/") {
		observability.UploadRejected().WithLabelValues("type").Inc()
		span.SetStatus(codes.Error, "type not allowed")
		return nil, "", ErrUploadTypeNotAllowed
	}

	span.SetStatus(codes.Ok, "validated")
	return buf.Bytes(), mime.Extension(), nil
}
