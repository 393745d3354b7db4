package chat

import (
	"errors"
	"fmt"
	"strings"
)

const (
	maxAttachmentBytes      = 2 << 20 // per attachment
	maxTotalAttachmentBytes = 4 << 20 // per request
	maxTextAttachmentChars  = 8000
)

// ErrAttachmentsTooLarge aborts the whole request; oversized input is never
// partially accepted.
var ErrAttachmentsTooLarge = errors.New("attachments exceed size limits")

// AttachmentDescriptor is the raw client-submitted shape. Kind decides which
// payload field is meaningful.
type AttachmentDescriptor struct {
	Kind        string `json:"kind"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Base64      string `json:"base64"`
	Text        string `json:"text"`
}

// ImageAttachment and TextAttachment form a tagged union: an image never
// carries text content and vice versa.
type ImageAttachment struct {
	Filename    string
	ContentType string
	Base64      string
	SizeBytes   int
}

type TextAttachment struct {
	Filename    string
	ContentType string
	Text        string
	SizeBytes   int
}

// NormalizedAttachments is the validated, partitioned result. Input order is
// preserved within each sequence; warnings accumulate in encounter order.
type NormalizedAttachments struct {
	Images   []ImageAttachment
	Texts    []TextAttachment
	Warnings []string
}

func (n NormalizedAttachments) Empty() bool {
	return len(n.Images) == 0 && len(n.Texts) == 0
}

var imageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var textContentTypes = map[string]bool{
	"text/plain":       true,
	"text/markdown":    true,
	"application/json": true,
}

// NormalizeAttachments validates and bounds the submitted attachments.
// Unsupported types, empty payloads and unrecognized kinds are dropped with a
// warning; breaching the per-item or running-total size cap fails the whole
// request with ErrAttachmentsTooLarge.
func NormalizeAttachments(descriptors []AttachmentDescriptor) (NormalizedAttachments, error) {
	var out NormalizedAttachments
	totalBytes := 0

	for _, d := range descriptors {
		name := attachmentName(d.Filename)
		contentType := strings.ToLower(strings.TrimSpace(d.ContentType))

		switch strings.ToLower(strings.TrimSpace(d.Kind)) {
		case "image":
			if !imageContentTypes[contentType] {
				out.Warnings = append(out.Warnings, fmt.Sprintf("已忽略不支持的附件「%s」（%s）。", name, contentType))
				continue
			}
			payload := stripBase64Prefix(strings.TrimSpace(d.Base64))
			size := estimateBase64Bytes(payload)
			if size == 0 {
				out.Warnings = append(out.Warnings, fmt.Sprintf("附件「%s」为空，已忽略。", name))
				continue
			}
			if size > maxAttachmentBytes {
				return NormalizedAttachments{}, ErrAttachmentsTooLarge
			}
			totalBytes += size
			if totalBytes > maxTotalAttachmentBytes {
				return NormalizedAttachments{}, ErrAttachmentsTooLarge
			}
			out.Images = append(out.Images, ImageAttachment{
				Filename:    name,
				ContentType: contentType,
				Base64:      payload,
				SizeBytes:   size,
			})
		case "text":
			if !textContentTypes[contentType] {
				out.Warnings = append(out.Warnings, fmt.Sprintf("已忽略不支持的附件「%s」（%s）。", name, contentType))
				continue
			}
			text := clipRunesHard(d.Text, maxTextAttachmentChars)
			size := len(text)
			if size == 0 {
				out.Warnings = append(out.Warnings, fmt.Sprintf("附件「%s」为空，已忽略。", name))
				continue
			}
			if size > maxAttachmentBytes {
				return NormalizedAttachments{}, ErrAttachmentsTooLarge
			}
			totalBytes += size
			if totalBytes > maxTotalAttachmentBytes {
				return NormalizedAttachments{}, ErrAttachmentsTooLarge
			}
			out.Texts = append(out.Texts, TextAttachment{
				Filename:    name,
				ContentType: contentType,
				Text:        text,
				SizeBytes:   size,
			})
		default:
			out.Warnings = append(out.Warnings, fmt.Sprintf("无法识别附件「%s」，已忽略。", name))
		}
	}

	return out, nil
}

func attachmentName(filename string) string {
	name := strings.TrimSpace(filename)
	if name == "" {
		return "未命名附件"
	}
	return name
}

// stripBase64Prefix removes a leading data-URI scheme ("data:...;base64,")
// or a bare "base64," marker so only the payload is measured and forwarded.
func stripBase64Prefix(payload string) string {
	if strings.HasPrefix(payload, "data:") {
		if idx := strings.Index(payload, "base64,"); idx >= 0 {
			return payload[idx+len("base64,"):]
		}
		return payload
	}
	return strings.TrimPrefix(payload, "base64,")
}

// estimateBase64Bytes estimates the decoded size without decoding: drop
// whitespace and trailing padding, then floor(len*3/4).
func estimateBase64Bytes(payload string) int {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, payload)
	cleaned = strings.TrimRight(cleaned, "=")
	return len(cleaned) * 3 / 4
}
