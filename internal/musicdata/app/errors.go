package app

import "errors"

var (
	// ErrReadFile はファイルの読み込みに失敗した場合のエラー
	ErrReadFile = errors.New("ファイルの読み込みに失敗しました")

	// ErrDecode はデータベースファイルの解析に失敗した場合のエラー
	ErrDecode = errors.New("データベースファイルの解析に失敗しました")

	// ErrEncode はデータベースファイルの生成に失敗した場合のエラー
	ErrEncode = errors.New("データベースファイルの生成に失敗しました")

	// ErrConvert はバージョン変換に失敗した場合のエラー
	ErrConvert = errors.New("バージョン変換に失敗しました")

	// ErrSaveFile はファイルの保存に失敗した場合のエラー
	ErrSaveFile = errors.New("ファイルの保存に失敗しました")

	// ErrNoDataVersion はドキュメントにも設定にもバージョンがない場合のエラー
	ErrNoDataVersion = errors.New("データバージョンが指定されていません")

	// ErrSongNotFound は指定した song_id の楽曲が存在しない場合のエラー
	ErrSongNotFound = errors.New("楽曲が見つかりませんでした")
)
