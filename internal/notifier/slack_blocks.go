package notifier

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"pr-bump-notifier/internal/domain"
)

// Ограничения Block Kit
const (
	slackMaxHeaderLen = 150
	slackMaxFields    = 10
	slackMaxElements  = 10
)

const (
	textPlain    = "plain_text"
	textMarkdown = "mrkdwn"
)

// TextObject - текстовый объект Block Kit.
type TextObject struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// PlainText создает plain_text с включёнными emoji.
func PlainText(text string) TextObject {
	return TextObject{Type: textPlain, Text: text, Emoji: true}
}

// Markdown создает mrkdwn текст.
func Markdown(text string) TextObject {
	return TextObject{Type: textMarkdown, Text: text}
}

func (t TextObject) validate() error {
	if t.Type != textPlain && t.Type != textMarkdown {
		return fmt.Errorf("unknown text type %q", t.Type)
	}
	if t.Text == "" {
		return fmt.Errorf("empty %s text", t.Type)
	}
	return nil
}

// Block - один из вариантов блока Slack: header, divider, section, context.
type Block interface {
	BlockType() string
	validate() error
}

// HeaderBlock - заголовок сообщения.
type HeaderBlock struct {
	Text TextObject
}

func (HeaderBlock) BlockType() string { return "header" }

func (b HeaderBlock) validate() error {
	if b.Text.Type != textPlain {
		return fmt.Errorf("header text must be %s", textPlain)
	}
	if utf8.RuneCountInString(b.Text.Text) > slackMaxHeaderLen {
		return fmt.Errorf("header longer than %d characters", slackMaxHeaderLen)
	}
	return b.Text.validate()
}

func (b HeaderBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string     `json:"type"`
		Text TextObject `json:"text"`
	}{b.BlockType(), b.Text})
}

// DividerBlock - горизонтальный разделитель.
type DividerBlock struct{}

func (DividerBlock) BlockType() string { return "divider" }

func (DividerBlock) validate() error { return nil }

func (b DividerBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
	}{b.BlockType()})
}

// SectionBlock - текст и необязательные поля в две колонки.
type SectionBlock struct {
	Text   TextObject
	Fields []TextObject
}

func (SectionBlock) BlockType() string { return "section" }

func (b SectionBlock) validate() error {
	if err := b.Text.validate(); err != nil {
		return err
	}
	if len(b.Fields) > slackMaxFields {
		return fmt.Errorf("section has %d fields, max %d", len(b.Fields), slackMaxFields)
	}
	for _, f := range b.Fields {
		if err := f.validate(); err != nil {
			return fmt.Errorf("section field: %w", err)
		}
	}
	return nil
}

func (b SectionBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string       `json:"type"`
		Text   TextObject   `json:"text"`
		Fields []TextObject `json:"fields,omitempty"`
	}{b.BlockType(), b.Text, b.Fields})
}

// ContextBlock - мелкий текст под секцией.
type ContextBlock struct {
	Elements []TextObject
}

func (ContextBlock) BlockType() string { return "context" }

func (b ContextBlock) validate() error {
	if len(b.Elements) == 0 || len(b.Elements) > slackMaxElements {
		return fmt.Errorf("context must have 1..%d elements, got %d", slackMaxElements, len(b.Elements))
	}
	for _, e := range b.Elements {
		if err := e.validate(); err != nil {
			return fmt.Errorf("context element: %w", err)
		}
	}
	return nil
}

func (b ContextBlock) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string       `json:"type"`
		Elements []TextObject `json:"elements"`
	}{b.BlockType(), b.Elements})
}

// SlackMessage - тело запроса входящего вебхука Slack.
type SlackMessage struct {
	Blocks []Block `json:"blocks"`
}

// SlackMessageBuilder собирает сообщение и проверяет каждый блок при Build.
type SlackMessageBuilder struct {
	blocks []Block
}

// NewSlackMessage создает пустой сборщик сообщения.
func NewSlackMessage() *SlackMessageBuilder {
	return &SlackMessageBuilder{}
}

// Header добавляет заголовок.
func (b *SlackMessageBuilder) Header(text string) *SlackMessageBuilder {
	b.blocks = append(b.blocks, HeaderBlock{Text: PlainText(text)})
	return b
}

// Divider добавляет разделитель.
func (b *SlackMessageBuilder) Divider() *SlackMessageBuilder {
	b.blocks = append(b.blocks, DividerBlock{})
	return b
}

// Section добавляет секцию с текстом и полями.
func (b *SlackMessageBuilder) Section(text TextObject, fields ...TextObject) *SlackMessageBuilder {
	b.blocks = append(b.blocks, SectionBlock{Text: text, Fields: fields})
	return b
}

// Context добавляет подвал из элементов.
func (b *SlackMessageBuilder) Context(elements ...TextObject) *SlackMessageBuilder {
	b.blocks = append(b.blocks, ContextBlock{Elements: elements})
	return b
}

// Build возвращает готовое сообщение или domain.ErrInvalidPayload.
func (b *SlackMessageBuilder) Build() (*SlackMessage, error) {
	if len(b.blocks) == 0 {
		return nil, fmt.Errorf("%w: slack message has no blocks", domain.ErrInvalidPayload)
	}
	for i, block := range b.blocks {
		if err := block.validate(); err != nil {
			return nil, fmt.Errorf("%w: block #%d (%s): %w", domain.ErrInvalidPayload, i, block.BlockType(), err)
		}
	}

	blocks := make([]Block, len(b.blocks))
	copy(blocks, b.blocks)
	return &SlackMessage{Blocks: blocks}, nil
}
