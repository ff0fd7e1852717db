package domain

import "fmt"

const (
	PolishTemperature = 0.7
	ReportTemperature = 0.5

	// FallbackReport is returned when the backend answers with no text.
	FallbackReport = "無法生成報告。"

	// ReportMarker appears in every report prompt and never in a polish prompt.
	ReportMarker = "觀課分析報告"
)

func PolishPrompt(note string) string {
	return fmt.Sprintf(`
你是一位資深的「教育教學顧問」。
請將以下老師隨手記錄的口語觀課筆記，改寫為符合教育學專業術語、結構清晰且專業的文字。
保持客觀中立，但讓表達更具專業度。

原始筆記：
"%s"

請直接回傳改寫後的內容，不需多餘的開場白。
`, note)
}

// ReportPrompt embeds the indented snapshot JSON verbatim.
func ReportPrompt(snapshotJSON string) string {
	return fmt.Sprintf(`
你是一位教育專家。請根據以下觀課紀錄 JSON 數據生成一份專業的 Markdown 觀課分析報告。

數據如下：
%s

報告必須包含以下結構：
1. 整體教學風格分析 (分析模式分布與時間配比)
2. 師生互動與班級經營 (分析行為計數與提問品質)
3. 關鍵時刻與專注度趨勢 (分析專注度變化與對應的教學事件)
4. 專業建議與亮點 (Strengths & Growths)

語言要求：繁體中文。
風格要求：精確、專業、具建設性。
`, snapshotJSON)
}
