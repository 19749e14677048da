package internal

import (
	"fmt"
	"os"
	"strings"
)

const Version = "0.3.1"

// PrintUsage writes the top-level help text to stderr.
func PrintUsage() {
	fmt.Fprintf(os.Stderr, `docsift - PDF Outline Extraction and Persona-Driven Section Ranking

Version: %s

USAGE:
    docsift [global options] <command> [command options]

GLOBAL OPTIONS:
    -config <path>
        Path to config file (default: ~/.docsift/config/docsift.yaml)

    -v, -version
        Show version information

    -h, -help
        Show this help message

COMMANDS:
    outline
        Extract a title and H1/H2/H3 outline from PDF documents

    rank
        Rank document sections by relevance to a persona and job-to-be-done

    stats
        Show run history and embedding cache statistics

EXAMPLES:
    # Extract outlines for every PDF in a directory
    docsift outline ./reports

    # Extract one document into a custom output directory
    docsift outline -o out report.pdf

    # Rank sections for a persona
    docsift rank -persona "Travel Planner" -job "Plan a 4-day trip" docs/*.pdf

    # Show statistics
    docsift stats

For detailed help on each command, use:
    docsift <command> -help
`, Version)
}

// StringList is a flag.Value that collects repeated string flags.
type StringList []string

func (s *StringList) String() string {
	return strings.Join(*s, ",")
}

func (s *StringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}
