package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"scene-mirror/core/codec"
	"scene-mirror/core/config"
	"scene-mirror/core/database"
	"scene-mirror/core/filter"
	"scene-mirror/core/host"
	"scene-mirror/core/proxy"
	"scene-mirror/core/schema"
	"scene-mirror/core/snapshot"
	"scene-mirror/core/storage"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	loadSnapshot bool
	loadExport   bool
	loadDump     bool
	loadQuery    string
	loadProfile  string
)

// loadCmd loads a document into a proxy tree and reports on it.
var loadCmd = &cobra.Command{
	Use:   "load <document>",
	Short: "Load a scene document into a proxy tree",
	Long: `Loads a YAML scene document into a proxy tree and reports collection sizes,
the tree fingerprint and every skipped attribute.

Examples:
  # Report only
  load scene.yaml

  # Print the encoded tree
  load scene.yaml --dump

  # Evaluate a JSONPath expression
  load scene.yaml --query '$.materials.*.roughness'

  # Store a snapshot and upload it
  load scene.yaml --snapshot --export

  # Profile the traversal
  load scene.yaml --profile cpu`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().BoolVar(&loadSnapshot, "snapshot", false, "Store the tree in the snapshot database")
	loadCmd.Flags().BoolVar(&loadExport, "export", false, "Upload the snapshot to object storage (implies --snapshot)")
	loadCmd.Flags().BoolVar(&loadDump, "dump", false, "Print the encoded tree as JSON")
	loadCmd.Flags().StringVar(&loadQuery, "query", "", "Print the values matching a JSONPath expression")
	loadCmd.Flags().StringVar(&loadProfile, "profile", "", "Write a profile of the run (cpu, mem)")
	RootCmd.AddCommand(loadCmd)
}

// startProfile starts the profiler selected by mode. The returned stop is never nil.
func startProfile(mode string) (stop func(), err error) {
	switch mode {
	case "":
		return func() {}, nil
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop, nil
	case "mem":
		return profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop, nil
	default:
		return nil, fmt.Errorf("unknown profile mode %q (want cpu or mem)", mode)
	}
}

// loadDocument parses path and loads it into a new root.
func loadDocument(path string, fc filter.Config, maxDepth int, l *zap.Logger) (*proxy.Root, *proxy.Loader, error) {
	doc, err := host.LoadScene(schema.Builtin(), path)
	if err != nil {
		return nil, nil, err
	}
	ld := proxy.NewLoader(doc, filter.New(doc.Registry(), fc), l, proxy.WithMaxDepth(maxDepth))
	root := proxy.NewRoot()
	if err := root.Load(ld); err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return root, ld, nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	stop, err := startProfile(loadProfile)
	if err != nil {
		return err
	}
	defer stop()

	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	start := time.Now()
	root, ld, err := loadDocument(args[0], cfg.Mirror.Filter, cfg.Mirror.MaxDepth, l)
	if err != nil {
		return err
	}
	fp, err := codec.Fingerprint(root)
	if err != nil {
		return err
	}
	printLoadReport(l, root, ld.Diagnostics(), fp, time.Since(start))

	if loadQuery != "" {
		values, err := codec.Query(root, loadQuery)
		if err != nil {
			return err
		}
		if err := printJSON(values); err != nil {
			return err
		}
	}

	if loadDump {
		data, err := codec.Marshal(root)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}

	if !loadSnapshot && !loadExport {
		return nil
	}
	return storeSnapshot(context.Background(), l, cfg, root, loadExport)
}

// storeSnapshot saves root in the snapshot database and optionally uploads it.
func storeSnapshot(ctx context.Context, l *zap.Logger, cfg *config.Config, root *proxy.Root, export bool) error {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	repo := snapshot.NewRepository(db, l)
	if err := repo.Migrate(); err != nil {
		return err
	}

	snap, created, err := repo.Save(ctx, cfg.Mirror.Session, root)
	if err != nil {
		return err
	}
	l.Info("Snapshot",
		zap.String("session", snap.Session),
		zap.String("fingerprint", snap.Fingerprint),
		zap.Bool("created", created))

	if !export {
		return nil
	}
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}
	key, err := snapshot.NewExporter(client, cfg.Storage.Bucket, l).Export(ctx, snap)
	if err != nil {
		return err
	}
	l.Info("Snapshot exported", zap.String("bucket", cfg.Storage.Bucket), zap.String("key", key))
	return nil
}

// printLoadReport logs collection sizes and a sample of diagnostics.
func printLoadReport(l *zap.Logger, root *proxy.Root, diags []proxy.Diagnostic, fingerprint string, took time.Duration) {
	entities := 0
	for _, name := range root.Names() {
		c, _ := root.Collection(name)
		entities += c.Len()
		if c.Len() > 0 {
			l.Info("Collection loaded", zap.String("collection", name), zap.Int("entities", c.Len()))
		}
	}

	l.Info("Load report",
		zap.Int("entities", entities),
		zap.Int("diagnostics", len(diags)),
		zap.String("fingerprint", fingerprint),
		zap.Duration("took", took),
	)

	maxShow := 5
	if len(diags) < maxShow {
		maxShow = len(diags)
	}
	for _, d := range diags[:maxShow] {
		l.Info("Sample diagnostic",
			zap.String("kind", string(d.Kind)),
			zap.String("path", d.Path),
			zap.String("attribute", d.Attribute),
		)
	}
	if len(diags) > maxShow {
		l.Info("Additional diagnostics not shown", zap.Int("count", len(diags)-maxShow))
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}
