package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mwarren/staticforge/internal/scan"
)

// RuntimeImport is the package generated code depends on.
const RuntimeImport = "github.com/mwarren/staticforge/resource"

const generatedHeader = "// Code generated by staticforge. DO NOT EDIT.\n"

// mapVar is the local variable name used inside generated functions.
const mapVar = "r"

// quoteBytes renders arbitrary byte content as a Go interpreted string
// literal. strconv.Quote escapes every byte that is not printable UTF-8
// (\xNN form), so []byte(literal) reproduces the input exactly — text and
// binary alike.
func quoteBytes(data []byte) string {
	return strconv.Quote(string(data))
}

// emitFileHeader writes the generated-code marker, package clause and the
// runtime import.
func emitFileHeader(b *strings.Builder, pkg string) {
	b.WriteString(generatedHeader)
	b.WriteString("\n")
	fmt.Fprintf(b, "package %s\n\n", pkg)
	fmt.Fprintf(b, "import (\n\t%s\n)\n\n", strconv.Quote(RuntimeImport))
}

// emitResourceInsert writes one mapping entry for res.
func emitResourceInsert(b *strings.Builder, res scan.Resource) {
	fmt.Fprintf(b, "\t%s[%s] = resource.New([]byte(%s), %d, %s)\n",
		mapVar,
		strconv.Quote(res.Path),
		quoteBytes(res.Content),
		res.Modified,
		strconv.Quote(res.MimeType),
	)
}

// emitMapHeader opens the result map with a capacity hint.
func emitMapHeader(b *strings.Builder, size int) {
	fmt.Fprintf(b, "\t%s := make(map[string]resource.Resource, %d)\n", mapVar, size)
}

// emitMapReturn closes the entry function.
func emitMapReturn(b *strings.Builder) {
	fmt.Fprintf(b, "\treturn %s\n}\n", mapVar)
}
