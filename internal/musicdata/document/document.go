// Package document は楽曲データベースの人が編集できるJSON表現を扱います
package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shiroemons/go-musicdata/pkg/musicdb"
)

// Document はJSONファイル1つ分の内容です
type Document struct {
	// SchemaVersion が 0 の場合はバージョン未指定として扱います
	SchemaVersion uint32           `json:"schema_version"`
	Records       []musicdb.Record `json:"records"`
}

// probe はレイアウトの判定用
type probe struct {
	DataVer *uint32         `json:"data_ver"`
	Data    json.RawMessage `json:"data"`
}

// Marshal はドキュメントをJSONに変換します。legacy が true の場合は旧ツール互換のレイアウトで出力します。
func Marshal(doc *Document, indent string, legacy bool) ([]byte, error) {
	var v any = doc
	if legacy {
		v = toLegacy(doc)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMarshal, err)
	}
	return buf.Bytes(), nil
}

// Unmarshal はJSONをドキュメントに変換します。旧ツールのレイアウト（data_ver / data）も受け付けます。
func Unmarshal(data []byte) (*Document, error) {
	var p probe
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	if p.Data != nil {
		var records []legacyRecord
		if err := json.Unmarshal(p.Data, &records); err != nil {
			return nil, fmt.Errorf("%w: data: %w", ErrParse, err)
		}
		doc := &Document{Records: make([]musicdb.Record, 0, len(records))}
		if p.DataVer != nil {
			doc.SchemaVersion = *p.DataVer
		}
		for i, lr := range records {
			rec, err := lr.toRecord()
			if err != nil {
				return nil, fmt.Errorf("%w: data[%d]: %w", ErrRecordShape, i, err)
			}
			doc.Records = append(doc.Records, rec)
		}
		return doc, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return &doc, nil
}
