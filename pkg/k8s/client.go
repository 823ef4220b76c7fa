package k8s

import (
	"context"
	"errors"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// ErrPodNotFound is returned when the requested pod does not exist.
var ErrPodNotFound = errors.New("pod not found")

type Client struct {
	clientset kubernetes.Interface
}

// NewClient creates a new Kubernetes client
func NewClient(kubeconfig, kubeContext string) (*Client, error) {
	// Try in-cluster config first
	config, err := rest.InClusterConfig()
	if err != nil {
		// Fall back to kubeconfig
		loadingRules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: kubeconfig}
		overrides := &clientcmd.ConfigOverrides{CurrentContext: kubeContext}
		config, err = clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides).ClientConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create config: %w", err)
		}
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	return NewClientWithClientset(clientset), nil
}

// NewClientWithClientset wraps an existing clientset.
func NewClientWithClientset(clientset kubernetes.Interface) *Client {
	return &Client{clientset: clientset}
}

// PodLogOptions selects which part of a pod's log to read.
type PodLogOptions struct {
	Container string
	// TailLines limits the log to the last N lines when positive.
	TailLines int64
	Previous  bool
}

// PodLogs returns the log of a pod's container as a single string.
func (c *Client) PodLogs(ctx context.Context, namespace, name string, opts PodLogOptions) (string, error) {
	if _, err := c.clientset.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{}); err != nil {
		if apierrors.IsNotFound(err) {
			return "", fmt.Errorf("%w: %s/%s", ErrPodNotFound, namespace, name)
		}
		return "", fmt.Errorf("failed to get pod %s: %w", name, err)
	}

	logOpts := &corev1.PodLogOptions{
		Container: opts.Container,
		Previous:  opts.Previous,
	}
	if opts.TailLines > 0 {
		tail := opts.TailLines
		logOpts.TailLines = &tail
	}

	raw, err := c.clientset.CoreV1().Pods(namespace).GetLogs(name, logOpts).DoRaw(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read logs of pod %s: %w", name, err)
	}
	return string(raw), nil
}
