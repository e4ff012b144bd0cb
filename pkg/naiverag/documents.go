// Package naiverag is the flat vector-search baseline: sessions become text
// documents, documents become embeddings, and queries retrieve by cosine
// similarity with no awareness of the graph structure. It exists so graph
// retrieval has something to be compared against.
package naiverag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dd0wney/journeygraph/pkg/ingest"
)

// Document is one session rendered as text for embedding.
type Document struct {
	Text      string `json:"text"`
	SessionID int64  `json:"session_id"`
	UserID    int64  `json:"user_id"`
	Segment   string `json:"segment"`
	Churned   bool   `json:"churned"`
}

// GenerateDocuments renders every session of the dataset as one document.
// Sessions of unknown users are skipped. Output order follows ascending
// session id so index builds are reproducible.
func GenerateDocuments(ds ingest.Dataset) []Document {
	users := make(map[int64]ingest.UserRecord, len(ds.Users))
	for _, u := range ds.Users {
		users[u.UserID] = u
	}
	products := make(map[int64]ingest.ProductRecord, len(ds.Products))
	for _, p := range ds.Products {
		products[p.ProductID] = p
	}

	sessions := make(map[int64][]ingest.EventRecord)
	for _, e := range ds.Events {
		sessions[e.SessionID] = append(sessions[e.SessionID], e)
	}
	sessionIDs := make([]int64, 0, len(sessions))
	for id := range sessions {
		sessionIDs = append(sessionIDs, id)
	}
	sort.Slice(sessionIDs, func(i, j int) bool { return sessionIDs[i] < sessionIDs[j] })

	docs := make([]Document, 0, len(sessionIDs))
	for _, sessionID := range sessionIDs {
		events := sessions[sessionID]
		user, ok := users[events[0].UserID]
		if !ok {
			continue
		}
		docs = append(docs, Document{
			Text:      sessionText(events, user, products),
			SessionID: sessionID,
			UserID:    user.UserID,
			Segment:   user.Segment,
			Churned:   user.Churned,
		})
	}
	return docs
}

func sessionText(events []ingest.EventRecord, user ingest.UserRecord, products map[int64]ingest.ProductRecord) string {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.Before(events[j].Timestamp)
		}
		return events[i].EventID < events[j].EventID
	})

	actions := make([]string, len(events))
	for i, e := range events {
		desc := e.EventType
		if e.ProductID != 0 {
			if p, ok := products[e.ProductID]; ok {
				desc += fmt.Sprintf(" %s ($%.2f)", p.Category, p.Price)
			}
		}
		actions[i] = desc
	}

	return fmt.Sprintf("User (segment: %s, LTV: $%.2f, churned: %v) | Actions: %s",
		user.Segment, user.LTV, user.Churned, strings.Join(actions, ", "))
}
