package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sync"

	"multitool/internal/models"
)

// File is a chosen local file. Open is called once per upload attempt.
type File struct {
	Name string
	Path string
	Size int64
	Type string

	open func() (io.ReadCloser, error)
}

func (f File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("file %q has no content", f.Name)
	}
	return f.open()
}

// SizeMB is the size in (binary) megabytes.
func (f File) SizeMB() float64 {
	return float64(f.Size) / (1 << 20)
}

// FileFromPath stats path and returns a File that reads it lazily.
func FileFromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return File{
		Name: filepath.Base(path),
		Path: path,
		Size: info.Size(),
		Type: ct,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

func FileFromBytes(name, contentType string, data []byte) File {
	return File{
		Name: name,
		Size: int64(len(data)),
		Type: contentType,
		open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Job tracks one file through upload and processing. Its status only moves
// forward; a finished job is replaced rather than reset.
type Job struct {
	mu         sync.Mutex
	file       *File
	status     models.UploadStatus
	remotePath string
	result     *models.SummaryResult
	err        error
}

// NewJob creates a Pending job. file may be nil (nothing chosen yet).
func NewJob(file *File) *Job {
	return &Job{file: file, status: models.UploadPending}
}

func (j *Job) File() *File {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file
}

func (j *Job) Status() models.UploadStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

func (j *Job) RemotePath() (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.remotePath, j.remotePath != ""
}

// Result is set only once the job completed.
func (j *Job) Result() (models.SummaryResult, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.result == nil {
		return models.SummaryResult{}, false
	}
	return *j.result, true
}

// Err is the failure that ended the job, if it failed.
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

func (j *Job) advance(next models.UploadStatus) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.advanceLocked(next)
}

func (j *Job) advanceLocked(next models.UploadStatus) error {
	if j.status.Terminal() || next <= j.status {
		return fmt.Errorf("upload job: illegal transition %s -> %s", j.status, next)
	}
	if next != models.UploadFailed && next != j.status+1 {
		return fmt.Errorf("upload job: illegal transition %s -> %s", j.status, next)
	}
	j.status = next
	return nil
}

func (j *Job) recordUpload(remotePath string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.advanceLocked(models.UploadUploaded); err != nil {
		return err
	}
	j.remotePath = remotePath
	return nil
}

func (j *Job) complete(res models.SummaryResult) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.advanceLocked(models.UploadCompleted); err != nil {
		return err
	}
	j.result = &res
	return nil
}

func (j *Job) fail(err error) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if terr := j.advanceLocked(models.UploadFailed); terr != nil {
		return terr
	}
	j.err = err
	return nil
}
