package logsource

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/helmcode/log-analyzer/pkg/k8s"
)

// ErrFileNotFound is returned when the log file does not exist.
var ErrFileNotFound = errors.New("log file not found")

// Source produces the full text of one log.
type Source interface {
	Load(ctx context.Context) (string, error)
	Describe() string
}

// LoadFile reads the whole file at path.
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: '%s'", ErrFileNotFound, path)
		}
		return "", fmt.Errorf("read log file %s: %w", path, err)
	}
	return string(data), nil
}

type FileSource struct {
	Path string
}

func (f *FileSource) Load(ctx context.Context) (string, error) {
	return LoadFile(f.Path)
}

func (f *FileSource) Describe() string {
	return "file " + f.Path
}

// PodLogReader is implemented by *k8s.Client.
type PodLogReader interface {
	PodLogs(ctx context.Context, namespace, name string, opts k8s.PodLogOptions) (string, error)
}

// PodSource reads the log of a single pod container.
type PodSource struct {
	Client    PodLogReader
	Namespace string
	Pod       string
	Options   k8s.PodLogOptions
}

func (p *PodSource) Load(ctx context.Context) (string, error) {
	return p.Client.PodLogs(ctx, p.Namespace, p.Pod, p.Options)
}

func (p *PodSource) Describe() string {
	desc := fmt.Sprintf("pod %s/%s", p.Namespace, p.Pod)
	if p.Options.Container != "" {
		desc += " (container " + p.Options.Container + ")"
	}
	return desc
}
