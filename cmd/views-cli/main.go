package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-views/pkg/view"
	"github.com/goliatone/go-views/pkg/view/pongo"
)

func main() {
	template := flag.String("template", "", "template name to render")
	dir := flag.String("dir", "templates", "templates directory")
	ext := flag.String("ext", ".tpl", "template file extension")
	layout := flag.String("layout", "", "layout template wrapping the output")
	dataFile := flag.String("data", "", "YAML file with template data")
	defaultsFile := flag.String("defaults", "", "YAML file with per-template default data")
	ask := flag.String("ask", "", "comma-separated data keys to prompt for")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	if strings.TrimSpace(*template) == "" {
		log.Fatalf("-template is required")
	}

	loader, err := pongo.New(pongo.WithBaseDir(*dir), pongo.WithExtension(*ext))
	if err != nil {
		log.Fatalf("Failed to create loader: %v", err)
	}

	options := []view.Option{view.WithLoader(loader)}
	if *defaultsFile != "" {
		options = append(options, view.WithDefaultsFile(nil, *defaultsFile))
	}

	engine, err := view.New(options...)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	data, err := loadData(*dataFile)
	if err != nil {
		log.Fatalf("Failed to load data: %v", err)
	}
	if err := promptFor(*ask, data); err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	rendered, err := engine.FetchWithLayout(*template, data, *layout, nil)
	if err != nil {
		log.Fatalf("Failed to render template: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(rendered), 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Rendered template written to %s\n", *output)
	} else {
		fmt.Println(rendered)
	}
}

func loadData(path string) (map[string]any, error) {
	data := make(map[string]any)
	if strings.TrimSpace(path) == "" {
		return data, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return data, nil
}

func promptFor(keys string, data map[string]any) error {
	for _, raw := range strings.Split(keys, ",") {
		key := strings.TrimSpace(raw)
		if key == "" {
			continue
		}
		if _, ok := data[key]; ok {
			continue
		}

		var value string
		prompt := &survey.Input{Message: key + ":"}
		if err := survey.AskOne(prompt, &value); err != nil {
			return err
		}
		data[key] = value
	}
	return nil
}
