package cluster

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/tools/clientcmd/api"
)

type ContextInfo struct {
	Name      string `json:"name"`
	Cluster   string `json:"cluster"`
	AuthInfo  string `json:"authInfo"`
	Namespace string `json:"namespace,omitempty"`
}

// Manager tracks the kubeconfig contexts and lazily builds one client set
// per context.
type Manager struct {
	mu sync.RWMutex

	kubeconfigPath string
	rawConfig      api.Config

	activeContext string

	clients map[string]*Clients
}

type Clients struct {
	RestConfig *rest.Config
	Clientset  kubernetes.Interface
}

// DefaultNamespace returns the namespace configured for the active context,
// or "default".
func (m *Manager) DefaultNamespace() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if c, ok := m.rawConfig.Contexts[m.activeContext]; ok && c.Namespace != "" {
		return c.Namespace
	}
	return "default"
}

func defaultKubeconfigPath() string {
	if v := os.Getenv("KUBECONFIG"); v != "" {
		// NOTE: clientcmd accepts a ':' separated list; only the first entry is used.
		return filepath.SplitList(v)[0]
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".kube", "config")
}

// NewManager loads the kubeconfig at path, falling back to $KUBECONFIG and
// then ~/.kube/config when path is empty.
func NewManager(path string) (*Manager, error) {
	if path == "" {
		path = defaultKubeconfigPath()
	}

	loadingRules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: path}
	cfg, err := loadingRules.Load()
	if err != nil {
		return nil, fmt.Errorf("load kubeconfig: %w", err)
	}

	m := &Manager{
		kubeconfigPath: path,
		rawConfig:      *cfg,
		activeContext:  cfg.CurrentContext,
		clients:        map[string]*Clients{},
	}
	return m, nil
}

// NewManagerForClients returns a Manager with a single context backed by an
// existing client set.
func NewManagerForClients(contextName string, cs kubernetes.Interface) *Manager {
	cfg := api.NewConfig()
	cfg.Contexts[contextName] = &api.Context{Cluster: contextName, AuthInfo: contextName}
	cfg.CurrentContext = contextName

	return &Manager{
		rawConfig:     *cfg,
		activeContext: contextName,
		clients: map[string]*Clients{
			contextName: {RestConfig: &rest.Config{}, Clientset: cs},
		},
	}
}

func (m *Manager) ListContexts() []ContextInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ContextInfo, 0, len(m.rawConfig.Contexts))
	for name, ctx := range m.rawConfig.Contexts {
		out = append(out, ContextInfo{
			Name:      name,
			Cluster:   ctx.Cluster,
			AuthInfo:  ctx.AuthInfo,
			Namespace: ctx.Namespace,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *Manager) ActiveContext() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeContext
}

func (m *Manager) SetActiveContext(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rawConfig.Contexts[name]; !ok {
		return fmt.Errorf("unknown context: %s", name)
	}
	m.activeContext = name
	return nil
}

func (m *Manager) GetClients(ctx context.Context) (*Clients, string, error) {
	m.mu.RLock()
	active := m.activeContext
	if c, ok := m.clients[active]; ok {
		m.mu.RUnlock()
		return c, active, nil
	}
	m.mu.RUnlock()

	if active == "" {
		return nil, active, fmt.Errorf("no active context in kubeconfig")
	}

	// Build rest.Config for the active context (supports exec plugins => OIDC-friendly)
	overrides := &clientcmd.ConfigOverrides{CurrentContext: active}
	loadingRules := &clientcmd.ClientConfigLoadingRules{ExplicitPath: m.kubeconfigPath}
	cc := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides)

	restCfg, err := cc.ClientConfig()
	if err != nil {
		return nil, active, fmt.Errorf("build rest config: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, active, fmt.Errorf("new clientset: %w", err)
	}

	clients := &Clients{
		RestConfig: restCfg,
		Clientset:  clientset,
	}

	m.mu.Lock()
	if existing, ok := m.clients[active]; ok {
		clients = existing
	} else {
		m.clients[active] = clients
	}
	m.mu.Unlock()

	return clients, active, nil
}
