// Package main provides localization for the avplay CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Play audio and video files from the terminal.": "ターミナルから音声と動画を再生します。",

		// Version command
		"avplay version %s": "avplay バージョン %s",

		// Probe output
		"Format: %s":     "フォーマット: %s",
		"Duration: %s":   "再生時間: %s",
		"Probed with %s": "%s でプローブしました",

		// Summary content
		"Playback Summary": "再生サマリー",
		"Session":          "セッション",
		"Session ID":       "セッションID",
		"Source":           "ソース",
		"Elapsed":          "経過時間",
		"Result":           "結果",
		"Completed":        "完了",
		"Failed":           "失敗",
		"Item":             "項目",
		"Value":            "値",
		"Media":            "メディア",
		"Format":           "フォーマット",
		"Duration":         "再生時間",
		"File Size":        "ファイルサイズ",
		"Type":             "種別",
		"Codec":            "コーデック",
		"Details":          "詳細",
		"Playback":         "再生",
		"Frames Delivered": "表示フレーム数",
		"Frames Dropped":   "破棄フレーム数",
		"Last Position":    "最終位置",
		"Seeks":            "シーク回数",
		"Video":            "映像",
		"Audio":            "音声",
		"Audio Written":    "音声出力量",
		"Snapshots":        "スナップショット",
		"Settings":         "設定",
		"Frame Interval":   "フレーム間隔",
		"Volume":           "音量",
		"Low Latency":      "低遅延",
		"Audio Buffer":     "音声バッファ",
		"Generated at":     "生成日時",
		"N/A":              "なし",
		"Yes":              "はい",
		"No":               "いいえ",
	})
}
