package config

import "errors"

var (
	// ErrReadConfig は設定ファイルの読み込みに失敗した場合のエラー
	ErrReadConfig = errors.New("設定ファイルの読み込みに失敗しました")

	// ErrParseConfig は設定ファイルの解析に失敗した場合のエラー
	ErrParseConfig = errors.New("設定ファイルの解析に失敗しました")

	// ErrLogLevel はログレベルが不正な場合のエラー
	ErrLogLevel = errors.New("ログレベルが不正です")
)
