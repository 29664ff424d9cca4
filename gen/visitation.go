package gen

import (
	"bytes"
	"go/format"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// generateSteps evaluates the step template against s, runs go/format
// over the result, and writes it to the generation's configured output
// file (or a <typename>_cow.go default next to the source).
func (s *cowStruct) generateSteps(g *generation) error {
	var buf bytes.Buffer
	view := stepView{Package: g.pkg.Name(), Struct: s}
	if err := stepsTemplate.Execute(&buf, view); err != nil {
		return errors.Wrap(err, "executing step template")
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return errors.Wrapf(err, "formatting generated source:\n%s", buf.String())
	}

	outName := g.outFile
	if outName == "" {
		outName = strings.ToLower(s.String()) + "_cow.go"
		outName = filepath.Join(g.inputDir, outName)
	}

	out, err := g.writeCloser(outName)
	if err != nil {
		return err
	}
	_, err = out.Write(formatted)
	if closeErr := out.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
