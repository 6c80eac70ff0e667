package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	figmacontext "github.com/kataras/figma-context"
	"github.com/kataras/figma-context/pkg/figma"
	"github.com/kataras/figma-context/pkg/formatter"
	"github.com/kataras/figma-context/pkg/imager"

	"github.com/fatih/color"
	"github.com/hyp3rd/ewrap"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	accessToken string
	baseURL     string
	debug       bool
	debugDir    string
	logLevel    string
	logFile     string

	figmaURL      string
	fileKey       string
	nodeIDs       string
	depth         int
	outputFormat  string
	outputFile    string
	exportImages  bool
	imageDir      string
	imageMaxWidth int

	imageNodeID string
	imageMode   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "figma-context",
		Short:        "Fetch simplified design context from Figma files",
		Long:         "A tool to fetch Figma files or nodes via the Figma API and turn them into a compact design description (YAML, JSON or markdown)",
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	pf.StringVarP(&accessToken, "token", "t", "", "Figma Personal Access Token (default $"+"FIGMA_API_KEY)")
	pf.StringVar(&baseURL, "base-url", "", "Figma API base URL")
	pf.BoolVar(&debug, "debug", false, "Write raw and simplified payloads to the debug log directory")
	pf.StringVar(&debugDir, "debug-dir", "", "Debug log directory (default \"logs\")")
	pf.StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	pf.StringVar(&logFile, "log-file", "", "Also write structured logs to this rotating file")

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch a file or its nodes and print the simplified design",
		RunE:  runGet,
	}

	gf := getCmd.Flags()
	gf.StringVarP(&figmaURL, "url", "u", "", "Figma file URL")
	gf.StringVarP(&fileKey, "file-key", "k", "", "Figma file key, used when --url is not given")
	gf.StringVarP(&nodeIDs, "node-ids", "n", "", "Comma-separated node IDs to fetch (optional, overrides the node-id of the URL)")
	gf.IntVarP(&depth, "depth", "d", 0, "How deep to traverse the node tree (0 = Figma default)")
	gf.StringVarP(&outputFormat, "format", "f", "", "Output format: yaml, json, markdown")
	gf.StringVarP(&outputFile, "output", "o", "", "Output file (default stdout)")
	gf.BoolVar(&exportImages, "export-images", false, "Export rendered node images")
	gf.StringVar(&imageDir, "image-dir", imager.DefaultOutputDir, "Output directory for exported images")
	gf.IntVar(&imageMaxWidth, "image-max-width", 0, "Downsize exported images wider than this (0 = keep)")

	imageCmd := &cobra.Command{
		Use:   "image",
		Short: "Render a node as PNG and print its URL, its base64 data or save it",
		RunE:  runImage,
	}

	imf := imageCmd.Flags()
	imf.StringVarP(&figmaURL, "url", "u", "", "Figma file URL")
	imf.StringVarP(&fileKey, "file-key", "k", "", "Figma file key, used when --url is not given")
	imf.StringVarP(&imageNodeID, "node-id", "n", "", "Node ID to render (default: the node-id of the URL)")
	imf.StringVarP(&imageMode, "mode", "m", "url", "What to print: url, base64, save")
	imf.StringVar(&imageDir, "image-dir", imager.DefaultOutputDir, "Output directory when --mode=save")
	imf.IntVar(&imageMaxWidth, "image-max-width", 0, "Downsize the saved image when wider than this (0 = keep)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("figma-context version %s\n", figmacontext.Version)
		},
	}

	rootCmd.AddCommand(getCmd, imageCmd, versionCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)

	cyan := color.New(color.FgCyan)
	cyan.Fprintln(os.Stderr, "\n🎨 Figma Context")
	cyan.Fprintln(os.Stderr, "================")

	var parsedNodeIDs []string
	if nodeIDs != "" {
		parsedNodeIDs = figmacontext.ParseNodeIDs(nodeIDs)
	}

	result, err := figmacontext.Run(cmd.Context(), figmacontext.Options{
		AccessToken:   cfg.AccessToken,
		BaseURL:       cfg.BaseURL,
		FileURL:       figmaURL,
		FileKey:       fileKey,
		NodeIDs:       parsedNodeIDs,
		Depth:         depth,
		Debug:         cfg.Debug,
		DebugLogDir:   cfg.DebugLogDir,
		Format:        format,
		ExportImages:  exportImages,
		ImageDir:      imageDir,
		ImageMaxWidth: imageMaxWidth,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	cyan.Fprintln(os.Stderr, "\n📊 Summary:")
	fmt.Fprintf(os.Stderr, "  • File: %s (%s)\n", result.FileName, result.FileKey)
	fmt.Fprintf(os.Stderr, "  • Top-level nodes: %d\n", len(result.Design.Nodes))
	fmt.Fprintf(os.Stderr, "  • Shared styles: %d\n", len(result.Design.GlobalVars.Styles))
	if len(result.Design.Components) > 0 {
		fmt.Fprintf(os.Stderr, "  • Components: %d\n", len(result.Design.Components))
	}
	if len(result.Assets) > 0 {
		fmt.Fprintf(os.Stderr, "  • Exported Assets: %d\n", len(result.Assets))
	}

	return writeOutput(result.Output)
}

func runImage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	key, nodeID, err := resolveImageTarget()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	c := figmacontext.NewClient(figmacontext.Options{
		AccessToken: cfg.AccessToken,
		BaseURL:     cfg.BaseURL,
		Debug:       cfg.Debug,
		DebugLogDir: cfg.DebugLogDir,
		Logger:      logger,
	})

	ctx := cmd.Context()

	switch imageMode {
	case "url":
		imageURL, err := c.FetchImageURL(ctx, key, nodeID)
		if err != nil {
			return err
		}
		fmt.Println(imageURL)
	case "base64":
		imageURL, err := c.FetchImageURL(ctx, key, nodeID)
		if err != nil {
			return err
		}
		data, err := c.FetchImageBase64(ctx, imageURL)
		if err != nil {
			return err
		}
		fmt.Println(data)
	case "save":
		result, err := imager.Export(ctx, c, key, map[string]string{nodeID: ""}, imager.ExportConfig{
			OutputDir: imageDir,
			MaxWidth:  imageMaxWidth,
		})
		if err != nil {
			return err
		}
		if len(result.Errors) > 0 {
			return result.Errors[0]
		}
		for _, asset := range result.Assets {
			color.New(color.FgGreen).Fprintf(os.Stderr, "✓ Saved %s (%dx%d)\n", asset.FileName, asset.Width, asset.Height)
		}
	default:
		return ewrap.Newf("unknown image mode %q (must be url, base64 or save)", imageMode)
	}

	return nil
}

// resolveImageTarget returns the file key and the node to render from the flags.
func resolveImageTarget() (string, string, error) {
	key := fileKey
	nodeID := imageNodeID

	if figmaURL != "" {
		var err error
		if key, err = figma.ExtractFileKey(figmaURL); err != nil {
			return "", "", err
		}
		if nodeID == "" {
			ids, err := figma.ExtractNodeIDs(figmaURL)
			if err != nil {
				return "", "", err
			}
			if len(ids) > 0 {
				nodeID = ids[0]
			}
		}
	}

	if key == "" {
		return "", "", ewrap.New("--url or --file-key is required")
	}
	if nodeID == "" {
		return "", "", ewrap.New("--node-id is required when the URL carries no node-id")
	}

	return key, nodeID, nil
}

func writeOutput(output string) error {
	if outputFile == "" {
		fmt.Print(output)
		return nil
	}

	green := color.New(color.FgGreen)
	green.Fprintf(os.Stderr, "\n💾 Writing to %s... ", outputFile)
	if err := os.WriteFile(outputFile, []byte(output), 0644); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "✗")
		return err
	}
	green.Fprintln(os.Stderr, "✓")

	return nil
}
