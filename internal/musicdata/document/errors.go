package document

import "errors"

var (
	// ErrParse はJSONの解析に失敗した場合のエラー
	ErrParse = errors.New("JSONの解析に失敗しました")

	// ErrRecordShape はレコードの配列長などが不正な場合のエラー
	ErrRecordShape = errors.New("レコードの形式が不正です")

	// ErrMarshal はJSONへの変換に失敗した場合のエラー
	ErrMarshal = errors.New("JSONへの変換に失敗しました")
)
