package storage

import (
	"fmt"

	"github.com/Kobrals/feeriequest-3d/internal/domain"

	"github.com/vmihailenco/msgpack/v5"
)

// Blob column layouts. Short keys keep rows small.
type itemRecord struct {
	Name string `msgpack:"n"`
	Tier int    `msgpack:"t"`
	Qty  int    `msgpack:"q"`
}

type questRecord struct {
	QuestID   string `msgpack:"id"`
	Progress  int    `msgpack:"p"`
	Completed bool   `msgpack:"c"`
}

func encodeInventory(inv domain.Inventory) ([]byte, error) {
	rows := make([]itemRecord, len(inv))
	for i, it := range inv {
		rows[i] = itemRecord{Name: it.Name, Tier: it.Tier, Qty: it.Qty}
	}
	data, err := msgpack.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode inventory: %w", err)
	}
	return data, nil
}

func decodeInventory(data []byte) (domain.Inventory, error) {
	if len(data) == 0 {
		return domain.Inventory{}, nil
	}
	var rows []itemRecord
	if err := msgpack.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}
	inv := make(domain.Inventory, 0, len(rows))
	for _, r := range rows {
		inv.Add(domain.Item{Name: r.Name, Tier: r.Tier, Qty: r.Qty})
	}
	return inv, nil
}

func encodeQuests(quests []domain.QuestProgress) ([]byte, error) {
	rows := make([]questRecord, len(quests))
	for i, q := range quests {
		rows[i] = questRecord{QuestID: q.QuestID, Progress: q.Progress, Completed: q.Completed}
	}
	data, err := msgpack.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode quests: %w", err)
	}
	return data, nil
}

func decodeQuests(data []byte) ([]domain.QuestProgress, error) {
	if len(data) == 0 {
		return []domain.QuestProgress{}, nil
	}
	var rows []questRecord
	if err := msgpack.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode quests: %w", err)
	}
	out := make([]domain.QuestProgress, len(rows))
	for i, r := range rows {
		out[i] = domain.QuestProgress{QuestID: r.QuestID, Progress: r.Progress, Completed: r.Completed}
	}
	return out, nil
}
