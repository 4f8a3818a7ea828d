package gpx

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

const (
	defaultNamespace = "http://www.topografix.com/GPX/1/1"
	defaultCreator   = "gsrtm"
)

// Parse reads and parses a GPX file, preserving extensions and namespaces.
func Parse(filename string) (*GPX, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file)
}

// ParseReader parses GPX from an io.Reader.
func ParseReader(r io.Reader) (*GPX, error) {
	decoder := xml.NewDecoder(r)

	var gpxData GPX
	if err := decoder.Decode(&gpxData); err != nil {
		return nil, fmt.Errorf("failed to parse GPX: %w", err)
	}

	gpxData.fillHeader()
	return &gpxData, nil
}

// fillHeader sets the namespace, version and creator when absent.
func (g *GPX) fillHeader() {
	if g.XMLNS == "" {
		g.XMLNS = defaultNamespace
	}
	if g.Version == "" {
		g.Version = "1.1"
	}
	if g.Creator == "" {
		g.Creator = defaultCreator
	}
}

// Write saves GPX data to a file.
func (g *GPX) Write(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := g.WriteToWriter(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteToWriter writes GPX data to an io.Writer. Documents built in code get
// the default GPX 1.1 header.
func (g *GPX) WriteToWriter(w io.Writer) error {
	g.fillHeader()
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return err
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")

	if err := encoder.Encode(g); err != nil {
		return fmt.Errorf("failed to encode GPX: %w", err)
	}

	return encoder.Close()
}
