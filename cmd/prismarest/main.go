// Command prismarest generates a REST API layer from a Prisma-style
// schema.
//
// Usage:
//
//	prismarest generate -schema schema.prisma -out internal/api
//	prismarest watch -config prismarest.yaml
//	prismarest validate -schema schema.prisma
//	prismarest version
//
// Settings can also come from a YAML config file (prismarest.yaml by
// default); flags override the file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tomaszdurka/prismarest/compiler/gen"
	"github.com/tomaszdurka/prismarest/compiler/gen/rest"
	"github.com/tomaszdurka/prismarest/compiler/load"
)

const version = "0.2.0"

// defaultConfigFile is picked up from the working directory when no
// -config flag is given.
const defaultConfigFile = "prismarest.yaml"

var logger = log.New(os.Stderr, "", 0)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch cmd := os.Args[1]; cmd {
	case "generate":
		err = runGenerate(os.Args[2:])
	case "watch":
		err = runWatch(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "version":
		fmt.Println("prismarest " + version)
	case "help", "-h", "-help", "--help":
		usage()
	default:
		logger.Printf("unknown command %q", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `prismarest generates a REST API layer from a Prisma-style schema.

Usage:

	prismarest <command> [flags]

Commands:

	generate   render the API layer of a schema
	watch      regenerate whenever schema or config change
	validate   parse a schema and report its entities
	version    print the version

Run "prismarest <command> -h" for the flags of a command.`)
}

// cliFlags holds the flag values shared by generate, watch and validate.
type cliFlags struct {
	config   string
	schema   string
	out      string
	pkg      string
	system   string
	schemas  string
	workers  int
	features string
}

func (cf *cliFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&cf.config, "config", "", "YAML config file (default "+defaultConfigFile+" when present)")
	fs.StringVar(&cf.schema, "schema", "", "schema file (.prisma, or .json entity IR)")
	fs.StringVar(&cf.out, "out", "", "output directory")
	fs.StringVar(&cf.pkg, "package", "", "package name of the generated code")
	fs.StringVar(&cf.system, "system-fields", "", "comma-separated server-supplied field names")
	fs.StringVar(&cf.schemas, "schemas", "", "comma-separated @@schema tags to generate")
	fs.IntVar(&cf.workers, "workers", 0, "concurrent entity emitters")
	fs.StringVar(&cf.features, "feature", "", "comma-separated features to enable ("+featureNames()+")")
}

func featureNames() string {
	names := make([]string, len(gen.AllFeatures))
	for i, f := range gen.AllFeatures {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}

// resolve merges the config file under the flags and returns the run
// configuration together with the schema and config file paths. A schema
// path from the file is taken relative to the file's directory.
func (cf *cliFlags) resolve() (c *gen.Config, schemaPath, configPath string, err error) {
	configPath = cf.config
	if configPath == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			configPath = defaultConfigFile
		}
	}
	var opts []gen.Option
	if configPath != "" {
		fc, err := gen.LoadFileConfig(configPath)
		if err != nil {
			return nil, "", "", err
		}
		if opts, err = fc.Options(); err != nil {
			return nil, "", "", err
		}
		if fc.SchemaPath != "" {
			schemaPath = fc.SchemaPath
			if !filepath.IsAbs(schemaPath) {
				schemaPath = filepath.Join(filepath.Dir(configPath), schemaPath)
			}
		}
	}
	if cf.schema != "" {
		schemaPath = cf.schema
	}
	if cf.out != "" {
		opts = append(opts, gen.WithTarget(cf.out))
	}
	if cf.pkg != "" {
		opts = append(opts, gen.WithPackage(cf.pkg))
	}
	if cf.system != "" {
		opts = append(opts, gen.WithSystemFields(splitList(cf.system)...))
	}
	if cf.schemas != "" {
		opts = append(opts, gen.WithSchemas(splitList(cf.schemas)...))
	}
	if cf.workers > 0 {
		opts = append(opts, gen.WithWorkers(cf.workers))
	}
	if cf.features != "" {
		opts = append(opts, gen.WithFeatureNames(splitList(cf.features)...))
	}
	if c, err = gen.NewConfig(opts...); err != nil {
		return nil, "", "", err
	}
	if schemaPath == "" {
		return nil, "", "", fmt.Errorf("prismarest: no schema given (use -schema or a config file)")
	}
	return c, schemaPath, configPath, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// loadSchema reads the schema source, dispatching on the extension:
// .json decodes as the entity IR, anything else parses as Prisma.
func loadSchema(path string) (*load.Schema, error) {
	if filepath.Ext(path) == ".json" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("prismarest: read schema: %w", err)
		}
		return load.UnmarshalSchema(buf)
	}
	return load.ParseFile(path)
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	cf := &cliFlags{}
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, schemaPath, _, err := cf.resolve()
	if err != nil {
		return err
	}
	return generate(context.Background(), c, schemaPath)
}

// generate runs one generation pass and logs the outcome.
func generate(ctx context.Context, c *gen.Config, schemaPath string) error {
	schema, err := loadSchema(schemaPath)
	if err != nil {
		return err
	}
	if c.FeatureEnabled(gen.FeatureSnapshot) {
		changed, err := gen.SchemaChanged(c, schema)
		if err != nil {
			return err
		}
		if !changed {
			logger.Printf("%s unchanged, nothing to do", schemaPath)
			return nil
		}
	}
	res, err := gen.Generate(ctx, c, schema, rest.Emitters()...)
	if err != nil {
		return err
	}
	logger.Printf("wrote %d files to %s", len(res.Written), c.Target)
	for _, p := range res.Skipped {
		logger.Printf("kept %s", p)
	}
	return nil
}

func runWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	cf := &cliFlags{}
	cf.register(fs)
	debounce := fs.Duration("debounce", 250*time.Millisecond, "delay before regenerating after a change")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, schemaPath, configPath, err := cf.resolve()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The config is re-resolved on every pass so edits to the config
	// file take effect without a restart.
	regen := func() {
		c, schemaPath, _, err := cf.resolve()
		if err != nil {
			logger.Print(err)
			return
		}
		if err := generate(ctx, c, schemaPath); err != nil {
			logger.Print(err)
		}
	}

	if err := generate(ctx, c, schemaPath); err != nil {
		logger.Print(err)
	}
	paths := []string{schemaPath}
	if configPath != "" {
		paths = append(paths, configPath)
	}
	return watch(ctx, paths, *debounce, regen)
}

// watch regenerates via regen whenever one of the paths changes,
// coalescing bursts of events through the debounce delay. Directories
// are watched rather than the files themselves, since editors replace
// files on save.
func watch(ctx context.Context, paths []string, debounce time.Duration, regen func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool, len(paths))
	for _, p := range paths {
		watched[filepath.Clean(p)] = true
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return err
		}
	}
	logger.Printf("watching %s", strings.Join(paths, ", "))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			logger.Print("stopping")
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(ev.Name)] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				timer.Reset(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Print(err)
		case <-fire:
			timer, fire = nil, nil
			regen()
		}
	}
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cf := &cliFlags{}
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, schemaPath, _, err := cf.resolve()
	if err != nil {
		return err
	}
	schema, err := loadSchema(schemaPath)
	if err != nil {
		return err
	}
	g, err := gen.NewGraph(c, schema)
	if err != nil {
		return err
	}
	for _, t := range g.Nodes {
		key := t.AddressName()
		if key == "" {
			key = "(none)"
		}
		fmt.Printf("%-20s %2d fields, key %s\n", t.Name, len(t.Fields), key)
	}
	fmt.Printf("%d entities, %d enums: ok\n", len(g.Nodes), len(g.Enums()))
	return nil
}
