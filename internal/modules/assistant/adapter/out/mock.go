package out

import (
	"context"
	"fmt"
	"strings"

	"chronos/internal/modules/assistant/domain"
	assistantout "chronos/internal/modules/assistant/port/out"
)

// MockGenerator answers offline and deterministically. It is used when no API
// key is configured.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (m *MockGenerator) Name() string { return "mock" }

func (m *MockGenerator) Generate(ctx context.Context, req assistantout.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.Contains(req.Prompt, domain.ReportMarker) {
		return mockReport, nil
	}
	note := req.Prompt
	if start := strings.Index(note, "\""); start >= 0 {
		if end := strings.LastIndex(note, "\""); end > start {
			note = note[start+1 : end]
		}
	}
	return fmt.Sprintf("【觀察紀錄】%s", strings.TrimSpace(note)), nil
}

const mockReport = `# 觀課分析報告（離線示範）

## 1. 整體教學風格分析
離線模式未連線至語言模型，請設定 API 金鑰以取得完整分析。

## 2. 師生互動與班級經營
請參考摘要中的行為累計。

## 3. 關鍵時刻與專注度趨勢
請參考摘要中的專注度曲線。

## 4. 專業建議與亮點
無。
`

var _ assistantout.TextGenerator = (*MockGenerator)(nil)
