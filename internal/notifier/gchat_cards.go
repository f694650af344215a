package notifier

import (
	"fmt"

	"pr-bump-notifier/internal/domain"
)

const gchatMaxColumns = 2

// ChatMessage - тело запроса вебхука Google Chat (Cards v2).
type ChatMessage struct {
	CardsV2 []CardWithID `json:"cardsV2"`
}

// CardWithID - карточка с идентификатором внутри сообщения.
type CardWithID struct {
	CardID string `json:"cardId"`
	Card   Card   `json:"card"`
}

// Card - заголовок и секции карточки.
type Card struct {
	Header   CardHeader    `json:"header"`
	Sections []CardSection `json:"sections"`
}

// CardHeader - шапка карточки.
type CardHeader struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	ImageType string `json:"imageType,omitempty"`
}

// CardSection - секция с заголовком и виджетами.
type CardSection struct {
	Header  string   `json:"header,omitempty"`
	Widgets []Widget `json:"widgets"`
}

// Widget - размеченное объединение: ровно одно поле должно быть заполнено.
type Widget struct {
	TextParagraph *TextParagraph `json:"textParagraph,omitempty"`
	DecoratedText *DecoratedText `json:"decoratedText,omitempty"`
	Columns       *Columns       `json:"columns,omitempty"`
	Divider       *Divider       `json:"divider,omitempty"`
}

// TextParagraph - абзац текста с простой HTML-разметкой.
type TextParagraph struct {
	Text string `json:"text"`
}

// DecoratedText - текст с иконкой и подписью снизу.
type DecoratedText struct {
	StartIcon   *Icon  `json:"startIcon,omitempty"`
	Text        string `json:"text"`
	BottomLabel string `json:"bottomLabel,omitempty"`
}

// Icon - встроенная иконка Google Chat.
type Icon struct {
	KnownIcon string `json:"knownIcon"`
}

// Columns - до двух колонок виджетов.
type Columns struct {
	ColumnItems []Column `json:"columnItems"`
}

// Column - одна колонка.
type Column struct {
	Widgets []Widget `json:"widgets"`
}

// Divider - горизонтальный разделитель.
type Divider struct{}

// TextParagraphWidget создает виджет-абзац.
func TextParagraphWidget(text string) Widget {
	return Widget{TextParagraph: &TextParagraph{Text: text}}
}

// DecoratedTextWidget создает текст с подписью; пустой knownIcon - без иконки.
func DecoratedTextWidget(knownIcon, text, bottomLabel string) Widget {
	dt := &DecoratedText{Text: text, BottomLabel: bottomLabel}
	if knownIcon != "" {
		dt.StartIcon = &Icon{KnownIcon: knownIcon}
	}
	return Widget{DecoratedText: dt}
}

// ColumnsWidget создает виджет из колонок.
func ColumnsWidget(columns ...Column) Widget {
	return Widget{Columns: &Columns{ColumnItems: columns}}
}

// ColumnOf создает колонку из виджетов.
func ColumnOf(widgets ...Widget) Column {
	return Column{Widgets: widgets}
}

// DividerWidget создает разделитель.
func DividerWidget() Widget {
	return Widget{Divider: &Divider{}}
}

func (w Widget) validate() error {
	set := 0
	if w.TextParagraph != nil {
		set++
		if w.TextParagraph.Text == "" {
			return fmt.Errorf("empty textParagraph")
		}
	}
	if w.DecoratedText != nil {
		set++
		if w.DecoratedText.Text == "" {
			return fmt.Errorf("empty decoratedText")
		}
	}
	if w.Columns != nil {
		set++
		if n := len(w.Columns.ColumnItems); n == 0 || n > gchatMaxColumns {
			return fmt.Errorf("columns must have 1..%d items, got %d", gchatMaxColumns, n)
		}
		for _, col := range w.Columns.ColumnItems {
			for _, inner := range col.Widgets {
				if inner.Columns != nil {
					return fmt.Errorf("columns cannot be nested")
				}
				if err := inner.validate(); err != nil {
					return err
				}
			}
		}
	}
	if w.Divider != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("widget must have exactly one variant, got %d", set)
	}
	return nil
}

// CardBuilder собирает одну карточку с несколькими секциями.
type CardBuilder struct {
	cardID   string
	header   CardHeader
	sections []CardSection
}

// NewCard создает сборщик карточки с идентификатором cardID.
func NewCard(cardID string) *CardBuilder {
	return &CardBuilder{cardID: cardID}
}

// Header задаёт шапку карточки.
func (b *CardBuilder) Header(title, subtitle, imageURL, imageType string) *CardBuilder {
	b.header = CardHeader{Title: title, Subtitle: subtitle, ImageURL: imageURL, ImageType: imageType}
	return b
}

// Section добавляет секцию с виджетами.
func (b *CardBuilder) Section(header string, widgets ...Widget) *CardBuilder {
	b.sections = append(b.sections, CardSection{Header: header, Widgets: widgets})
	return b
}

// Build возвращает сообщение с единственной карточкой или domain.ErrInvalidPayload.
func (b *CardBuilder) Build() (*ChatMessage, error) {
	if b.cardID == "" {
		return nil, fmt.Errorf("%w: card id is empty", domain.ErrInvalidPayload)
	}
	if b.header.Title == "" {
		return nil, fmt.Errorf("%w: card title is empty", domain.ErrInvalidPayload)
	}
	if len(b.sections) == 0 {
		return nil, fmt.Errorf("%w: card has no sections", domain.ErrInvalidPayload)
	}
	for i, s := range b.sections {
		if len(s.Widgets) == 0 {
			return nil, fmt.Errorf("%w: section #%d has no widgets", domain.ErrInvalidPayload, i)
		}
		for j, w := range s.Widgets {
			if err := w.validate(); err != nil {
				return nil, fmt.Errorf("%w: section #%d widget #%d: %w", domain.ErrInvalidPayload, i, j, err)
			}
		}
	}

	sections := make([]CardSection, len(b.sections))
	copy(sections, b.sections)

	return &ChatMessage{
		CardsV2: []CardWithID{{
			CardID: b.cardID,
			Card:   Card{Header: b.header, Sections: sections},
		}},
	}, nil
}
