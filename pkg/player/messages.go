package player

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Reported errors
		msgOpenInput:     "入力ファイルを開けませんでした",
		msgStreamInfo:    "ストリーム情報の取得に失敗しました",
		msgNoStreams:     "映像または音声のストリームが見つかりません",
		msgCodecNotFound: "映像コーデックが見つかりません",
		msgCodecOpen:     "映像コーデックを開けませんでした",

		// Session lifecycle
		"Session %s started: %s":              "セッション %s を開始しました: %s",
		"Session %s ended":                    "セッション %s が終了しました",
		"Duration: %d ms":                     "再生時間: %d ms",
		"Selected streams: video=%d audio=%d": "選択したストリーム: 映像=%d 音声=%d",
		"Audio disabled: %v":                  "音声を無効にしました: %v",
		"Audio output: %d Hz, %d channels":    "音声出力: %d Hz, %d チャンネル",
		"Seeking to %d ms":                    "%d ms へシーク中",
		"Seek to %d ms failed: %v":            "%d ms へのシークに失敗しました: %v",
		"Session setup failed: %v":            "セッションの初期化に失敗しました: %v",
		"End of stream":                       "ストリームの終端に達しました",
		"Read failed, ending playback: %v":    "読み込みに失敗したため再生を終了します: %v",
		"Teardown reported an error: %v":      "終了処理でエラーが発生しました: %v",
		"Dropped video frame: %v":             "映像フレームを破棄しました: %v",
		"Dropped audio frame: %v":             "音声フレームを破棄しました: %v",
	})
}
