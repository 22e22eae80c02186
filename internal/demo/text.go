package demo

import (
	"bytes"
	"compress/zlib"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	streamRe  = regexp.MustCompile(`(?s)stream\r?\n(.*?)\r?\nendstream`)
	textObjRe = regexp.MustCompile(`(?s)BT(.*?)ET`)
	literalRe = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)`)
	sentence  = regexp.MustCompile(`[^.!?]+[.!?]+`)
	spaces    = regexp.MustCompile(`\s+`)
)

// ExtractText pulls readable text out of a PDF's text objects, inflating
// Flate streams on the way. It is nowhere near a full PDF parser but reads
// simple generated documents. Non-PDF UTF-8 input is returned as is.
func ExtractText(data []byte) string {
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		if utf8.Valid(data) {
			return strings.TrimSpace(string(data))
		}
		return ""
	}

	chunks := [][]byte{data}
	for _, m := range streamRe.FindAllSubmatch(data, -1) {
		zr, err := zlib.NewReader(bytes.NewReader(m[1]))
		if err != nil {
			continue
		}
		inflated, err := io.ReadAll(io.LimitReader(zr, 16<<20))
		zr.Close()
		if err == nil || len(inflated) > 0 {
			chunks = append(chunks, inflated)
		}
	}

	var lines []string
	for _, chunk := range chunks {
		for _, obj := range textObjRe.FindAllSubmatch(chunk, -1) {
			var parts []string
			for _, lit := range literalRe.FindAllSubmatch(obj[1], -1) {
				parts = append(parts, unescapeLiteral(string(lit[1])))
			}
			if line := strings.TrimSpace(strings.Join(parts, "")); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

var literalEscapes = strings.NewReplacer(`\(`, "(", `\)`, ")", `\\`, `\`, `\n`, "\n", `\r`, "", `\t`, "\t")

func unescapeLiteral(s string) string { return literalEscapes.Replace(s) }

var sentencesPerLength = map[string]int{
	"short":  2,
	"medium": 4,
	"long":   8,
}

// Summarize is an extractive stand-in for the model: it keeps the leading
// sentences of text, shaped by strategy. The trailer line is model noise the
// client is expected to filter.
func Summarize(text, length, strategy string) (string, string) {
	n, ok := sentencesPerLength[length]
	if !ok {
		n = sentencesPerLength["medium"]
	}
	switch strategy {
	case "key_points", "detailed":
	default:
		strategy = "balanced_extraction"
	}
	if strategy == "detailed" {
		n += 2
	}

	flat := strings.TrimSpace(spaces.ReplaceAllString(text, " "))
	found := sentence.FindAllString(flat, -1)
	if len(found) == 0 {
		found = []string{flat}
	}
	var picked []string
	for _, s := range found {
		s = strings.TrimSpace(s)
		if len(s) < 12 {
			continue
		}
		picked = append(picked, s)
		if len(picked) == n {
			break
		}
	}
	if len(picked) == 0 {
		return "", strategy
	}

	var paragraphs []string
	switch strategy {
	case "key_points":
		for _, s := range picked {
			paragraphs = append(paragraphs, "• "+s)
		}
	default:
		for i := 0; i < len(picked); i += 2 {
			end := min(i+2, len(picked))
			paragraphs = append(paragraphs, strings.Join(picked[i:end], " "))
		}
	}
	// Small models tend to restate their opening line.
	paragraphs = append(paragraphs, strings.ToUpper(paragraphs[0]), "Summary complete.")
	return strings.Join(paragraphs, "\n\n"), strategy
}

// Reply is the demo chat model: a short acknowledgement capped at maxTokens words.
func Reply(prompt string, maxTokens int) string {
	prompt = strings.TrimSpace(prompt)
	words := strings.Fields("You asked: " + prompt + " (demo backend, no model loaded; start the Python server for real answers.)")
	if len(words) > maxTokens {
		words = words[:maxTokens]
	}
	return strings.Join(words, " ")
}
