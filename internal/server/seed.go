package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/nudge/internal/card"
	"github.com/abhisek/nudge/internal/store"
)

// SeedResult counts what Seed loaded.
type SeedResult struct {
	Cards   int
	Skipped int
}

// Seed loads every *.json card document, *.deck.json generated tip deck and
// *.md checklist in dir into the store and announces each one with a broadcast notification. Files that
// fail to decode are logged and skipped.
func Seed(ctx context.Context, s *store.Store, dir string, logger *zap.Logger) (SeedResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return SeedResult{}, fmt.Errorf("read seed dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var res SeedResult
	cards, notifs := s.CardRepo(), s.NotificationRepo()
	for _, name := range names {
		doc, err := loadDocument(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("skipping seed file", zap.String("file", name), zap.Error(err))
			res.Skipped++
			continue
		}
		if doc == nil {
			continue
		}

		body, err := card.Encode(doc)
		if err != nil {
			return res, fmt.Errorf("encode %s: %w", name, err)
		}
		if err := cards.Put(ctx, &store.Card{
			InteractionID: doc.ID,
			Kind:          string(doc.Kind),
			Title:         doc.Title,
			Body:          body,
		}); err != nil {
			return res, err
		}
		if err := notifs.Add(ctx, &store.Notification{
			ID:       uuid.NewString(),
			Type:     string(doc.Kind),
			Title:    doc.Title,
			ActionID: doc.ID,
		}); err != nil {
			return res, err
		}
		res.Cards++
		logger.Info("seeded card", zap.String("interaction_id", doc.ID), zap.String("kind", string(doc.Kind)))
	}
	return res, nil
}

// generatedDeckSuffix marks files holding the deck generation endpoint's
// response rather than a card document.
const generatedDeckSuffix = ".deck.json"

// loadDocument returns nil, nil for files it does not recognise.
func loadDocument(path string) (*card.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".md" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(path))

	if deckID, ok := strings.CutSuffix(base, generatedDeckSuffix); ok {
		return card.DecodeGeneratedDeck(deckID, raw)
	}
	if ext == ".md" {
		return card.ParseMarkdownChecklist(id, markdownTitle(string(raw), id), string(raw))
	}

	doc, err := card.Decode(raw)
	if err != nil {
		return nil, err
	}
	if doc.ID == "" {
		doc.ID = id
	}
	return doc, nil
}

// markdownTitle returns the first level-one heading or fallback.
func markdownTitle(md, fallback string) string {
	for _, line := range strings.Split(md, "\n") {
		if t, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSpace(t)
		}
	}
	return fallback
}
