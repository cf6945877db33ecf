package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"
)

func main() {
	tdPath := flag.String("td", "", "Path to the Thing Description JSON file")
	outputDir := flag.String("output", "", "Output directory for the generated Go file")
	pkgName := flag.String("package", "", "Package name for the generated file (default: derived from the thing title)")
	flag.Parse()

	if *tdPath == "" || *outputDir == "" {
		fmt.Fprintln(os.Stderr, "Usage: wot-tdgen -td <path> -output <dir> [-package <name>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*tdPath, *outputDir, *pkgName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(tdPath, outputDir, pkgName string) error {
	td, err := LoadThingDescription(tdPath)
	if err != nil {
		return fmt.Errorf("loading thing description: %w", err)
	}

	if pkgName == "" {
		pkgName, err = packageName(td.Title)
		if err != nil {
			return err
		}
	}

	code, err := Generate(td, pkgName)
	if err != nil {
		return fmt.Errorf("generating code for %q: %w", td.Title, err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	outFileName := thingFileName(td.Title) + "_gen.go"
	outPath := filepath.Join(outputDir, outFileName)
	if err := writeFormatted(outPath, code); err != nil {
		return fmt.Errorf("writing %s: %w", outFileName, err)
	}
	fmt.Printf("  generated %s\n", outPath)

	return nil
}

// writeFormatted formats Go source code with goimports and writes it to a file.
func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Write unformatted so you can debug the generator output
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}

// thingFileName converts "My Lamp" to "my_lamp", "CO2-Sensor v2" to "co2_sensor_v2".
func thingFileName(title string) string {
	var result []rune
	pendingSep := false
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			if pendingSep && len(result) > 0 {
				result = append(result, '_')
			}
			pendingSep = false
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			if pendingSep && len(result) > 0 {
				result = append(result, '_')
			}
			pendingSep = false
			result = append(result, r+('a'-'A'))
		case r == ' ' || r == '-' || r == '_' || r == '.':
			pendingSep = true
		}
	}
	if len(result) == 0 {
		return "thing"
	}
	return string(result)
}

// packageName converts "My Lamp" to "mylamp". Titles with no leading letter
// cannot name a package, so those require an explicit -package flag.
func packageName(title string) (string, error) {
	var result []rune
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r+('a'-'A'))
		}
	}
	if len(result) == 0 || !(result[0] >= 'a' && result[0] <= 'z') {
		return "", fmt.Errorf("cannot derive a package name from title %q (use -package)", title)
	}
	return string(result), nil
}
