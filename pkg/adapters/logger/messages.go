package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Playing %s":                    "%s を再生中",
		"Playback finished":             "再生が終了しました",
		"Playback failed: %s":           "再生に失敗しました: %s",
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",
		"Summary saved to %s":           "サマリーを %s に保存しました",
		"Snapshot saved to %s":          "スナップショットを %s に保存しました",
		"Writing summary failed: %v":    "サマリーの書き込みに失敗しました: %v",
		"Probe for summary failed: %v":  "サマリー用のプローブに失敗しました: %v",

		// Probe
		"MP4 parser failed, falling back to libav: %v": "MP4パーサーが失敗したため libav にフォールバックします: %v",

		// Audio output
		"Opening audio output: %d Hz, %d channels, %d bytes buffer": "音声出力を開いています: %d Hz, %d チャンネル, バッファ %d バイト",
		"Audio output closed": "音声出力を閉じました",

		// Backend
		"Opened %s: %s, %d streams":   "%s を開きました: %s, %d ストリーム",
		"Scaler rebuilt for %dx%d %s": "%dx%d %s 用にスケーラーを再構築しました",
		"Close container: %v":         "コンテナのクローズに失敗しました: %v",

		// Viewer
		"Command: %s":                          "コマンド: %s",
		"Command failed: %v":                   "コマンドの実行に失敗しました: %v",
		"Saving snapshot failed: %v":           "スナップショットの保存に失敗しました: %v",
		"%d frames dropped by the event queue": "イベントキューで %d フレームを破棄しました",
	})
}
