// Package musicdb はリズムゲームの楽曲データベース（"IIDX" コンテナ）を読み書きするためのパッケージです。
//
// コンテナは16バイトのヘッダ、スロットごとの u16 インデックステーブル、固定長レコードの列で構成されます。
//
//	offset 0   : 4 bytes   magic "IIDX"
//	offset 4   : u32 LE    schema_version
//	offset 8   : u16 LE    populated_count
//	offset 10  : u32 LE    slot_count
//	offset 14  : u16 LE    reserved
//	offset 16  : slot_count × u16 LE   index_table
//	offset ... : populated_count × fixed-size records
//
// サポートするスキーマ:
//   - 0x19: IIDX 25 CANNON BALLERS（1レコード832バイト）
//
// 基本的な使い方:
//
//	c, err := musicdb.NewDecoder(nil).Decode(f)
//	if err != nil {
//	    return err
//	}
//	merged := musicdb.Merge(older.Records, c.Records)
//	err = musicdb.NewEncoder(nil).Encode(out, c.SchemaVersion, merged)
package musicdb
