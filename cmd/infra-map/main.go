package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/theoremus-urban-solutions/infrastructured-map/config"
	"github.com/theoremus-urban-solutions/infrastructured-map/dataset"
	"github.com/theoremus-urban-solutions/infrastructured-map/feature"
	"github.com/theoremus-urban-solutions/infrastructured-map/formatter"
	"github.com/theoremus-urban-solutions/infrastructured-map/internal"
	"github.com/theoremus-urban-solutions/infrastructured-map/loader"
	"github.com/theoremus-urban-solutions/infrastructured-map/markdown"
	"github.com/theoremus-urban-solutions/infrastructured-map/viewer"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "infra-map:", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	mode       string
	dataset    string
	data       string
	markdown   string
	format     string
	disable    string
	enable     string
	feature    string
	jsonp      string
	output     string
	logLevel   string
}

func parseFlags(args []string) (*options, error) {
	o := &options{}
	fset := flag.NewFlagSet("infra-map", flag.ContinueOnError)
	fset.StringVar(&o.configPath, "config", "", "path to config.yml (default: search config.yml, ./config/config.yml)")
	fset.StringVar(&o.mode, "mode", "render", "render|inspect|extract")
	fset.StringVar(&o.dataset, "dataset", "", "dataset name from config.datasets[]")
	fset.StringVar(&o.data, "data", "", "dataset location: path, http(s) URL or s3://bucket/key (overrides config)")
	fset.StringVar(&o.markdown, "markdown", "", "annotated Markdown location (overrides config)")
	fset.StringVar(&o.format, "format", "json", "json|yaml, or html for inspect")
	fset.StringVar(&o.disable, "disable", "", "properties to disable: dim=id[,dim=id], id * for the whole dimension")
	fset.StringVar(&o.enable, "enable", "", "properties to enable, applied after -disable")
	fset.StringVar(&o.feature, "feature", "segment:0", "feature to inspect: segment:N or placemark:N")
	fset.StringVar(&o.jsonp, "jsonp", "", "JSONP template for extract output, e.g. 'load(%s);' (overrides config)")
	fset.StringVar(&o.output, "output", "", "write output to this file instead of stdout")
	fset.StringVar(&o.logLevel, "log-level", "", "debug|info|warn|error (overrides config)")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	switch o.mode {
	case "render", "inspect", "extract":
	default:
		return nil, fmt.Errorf("unknown mode %q", o.mode)
	}
	return o, nil
}

func loadConfig(path string) (config.AppConfig, error) {
	var err error
	if path != "" {
		err = config.LoadAppConfigFrom(path)
	} else {
		err = config.LoadAppConfig()
		if errors.Is(err, fs.ErrNotExist) {
			config.Config = config.Default()
			err = nil
		}
	}
	return config.Config, err
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	level := cfg.Logging.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	logger, err := internal.InitLogging(level, cfg.Logging.Encoding)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// -data alone names an ad hoc dataset; with -dataset it overrides
	// only the data location of the configured entry.
	dsCfg := config.DatasetConfig{}
	if o.data == "" || o.dataset != "" {
		if dsCfg, err = cfg.SelectDataset(o.dataset); err != nil {
			return err
		}
	}
	if o.data != "" {
		dsCfg.Data = o.data
	}
	if o.markdown != "" {
		dsCfg.Markdown = o.markdown
	}
	if o.jsonp != "" {
		dsCfg.JSONP = o.jsonp
	}

	ds, err := fetchDataset(ctx, cfg, dsCfg, logger)
	if err != nil {
		return err
	}

	var out []byte
	switch o.mode {
	case "extract":
		if dsCfg.Markdown == "" {
			return errors.New("extract needs a markdown document (-markdown or datasets[].markdown)")
		}
		if err := dataset.Validate(ds); err != nil {
			return err
		}
		out, err = dataset.Encode(ds, dsCfg.JSONP)
	default:
		out, err = renderOrInspect(o, cfg, dsCfg.Name, ds, logger)
	}
	if err != nil {
		return err
	}

	if o.output == "" {
		_, err = stdout.Write(out)
		return err
	}
	return os.WriteFile(o.output, out, 0o644)
}

// fetchDataset reads the dataset and, when configured, attaches the
// references extracted from the markdown document.
func fetchDataset(ctx context.Context, cfg config.AppConfig, dsCfg config.DatasetConfig, logger *zap.SugaredLogger) (*dataset.Dataset, error) {
	fetcher := dataset.NewFetcher(cfg.Storage, logger)
	docs, err := fetcher.FetchAll(ctx, dsCfg.Data, dsCfg.Markdown)
	if err != nil {
		return nil, err
	}
	ds, err := dataset.Decode(docs[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dsCfg.Data, err)
	}
	if docs[1] == nil {
		return ds, nil
	}

	extractor := markdown.NewExtractor(markdown.Options{
		Statuses:  cfg.Dimensions.Statuses,
		Timelines: cfg.Dimensions.Timelines,
	}, logger)
	refs, err := extractor.Extract(docs[1])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dsCfg.Markdown, err)
	}
	unused, err := dataset.AttachProjects(ds, refs)
	if err != nil {
		return nil, err
	}
	if len(unused) > 0 {
		logger.Warnw("markdown references not used by any feature", "ids", unused)
	}
	return ds, nil
}

func renderOrInspect(o *options, cfg config.AppConfig, name string, ds *dataset.Dataset, logger *zap.SugaredLogger) ([]byte, error) {
	disable, err := parseToggles(o.disable, false)
	if err != nil {
		return nil, err
	}
	enable, err := parseToggles(o.enable, true)
	if err != nil {
		return nil, err
	}

	l, err := loader.New(loader.OptionsFromConfig(cfg), logger)
	if err != nil {
		return nil, err
	}
	locale, err := language.Parse(cfg.Inspection.Locale)
	if err != nil {
		return nil, fmt.Errorf("inspection locale: %w", err)
	}
	rec := &feature.Recorder{}
	v := viewer.New(l, rec, logger,
		viewer.WithLocale(locale),
		viewer.WithTitleSeparator(cfg.Inspection.TitleSeparator))
	if _, err := v.Load(ds); err != nil {
		return nil, err
	}

	for _, t := range append(disable, enable...) {
		rec.Reset()
		if _, err := t.apply(v); err != nil {
			return nil, err
		}
	}

	var res any
	if o.mode == "inspect" {
		kind, n, err := feature.ParseID(o.feature)
		if err != nil {
			return nil, err
		}
		f, ok := v.Feature(kind, n)
		if !ok {
			return nil, fmt.Errorf("no feature %s in dataset", o.feature)
		}
		res = formatter.WrapInspect(name, v, f)
	} else {
		res = formatter.WrapRender(name, v, rec.Frames())
	}
	return formatter.NewResponseBuilder().Build(o.format, res)
}
