package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"rbacview/internal/cluster"
)

var version = "dev" // Set at build time using -ldflags

// app carries what every subcommand needs. newManager is swapped in tests.
type app struct {
	out        io.Writer
	log        logr.Logger
	newManager func(kubeconfig string) (*cluster.Manager, error)

	kubeconfig  string
	contextName string
}

func newApp(out io.Writer) *app {
	return &app{
		out:        out,
		log:        klog.Background().WithName("rbacview"),
		newManager: cluster.NewManager,
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rbacview <command> [args]",
		Short:         "Inspect Kubernetes roles, cluster roles and their bindings.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.kubeconfig, "kubeconfig", "", "Path to the kubeconfig file (defaults to $KUBECONFIG or ~/.kube/config)")
	pf.StringVar(&a.contextName, "context", "", "Kubeconfig context to use (defaults to the current context)")

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	pf.AddGoFlag(klogFlags.Lookup("v"))

	rootCmd.AddCommand(newGetCmd(a))
	rootCmd.AddCommand(newDescribeCmd(a))
	rootCmd.AddCommand(newSubjectCmd(a))
	rootCmd.AddCommand(newServeCmd(a))

	return rootCmd
}

// manager loads the kubeconfig and applies --context.
func (a *app) manager() (*cluster.Manager, error) {
	mgr, err := a.newManager(a.kubeconfig)
	if err != nil {
		return nil, err
	}
	if a.contextName != "" {
		if err := mgr.SetActiveContext(a.contextName); err != nil {
			return nil, fmt.Errorf("select context: %w", err)
		}
	}
	return mgr, nil
}
