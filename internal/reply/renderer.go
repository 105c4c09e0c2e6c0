// Package reply renders chat messages for the bot. Every render
// function is deterministic: the same inputs always produce the same
// bytes, so replies are easy to assert on in tests.
package reply

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"moneebunny/internal/core"
	"moneebunny/internal/lexicon"
	"moneebunny/internal/report"
)

const divider = "────────────────"

// Payload is a chat reply ready for the messenger adapter. Photo is a
// PNG when set; Text doubles as the caption in that case.
type Payload struct {
	Text  string
	Photo []byte
}

// Renderer formats reports and confirmations. The lexicon supplies the
// per-category glyphs shown in breakdowns.
type Renderer struct {
	lex *lexicon.Table
}

func NewRenderer(lex *lexicon.Table) *Renderer {
	return &Renderer{lex: lex}
}

// TransactionRecorded confirms a freshly recorded transaction and shows
// the running monthly total for its category.
func (r *Renderer) TransactionRecorded(tx core.Transaction, monthTotal decimal.Decimal) Payload {
	glyph, kind := "💸", "支出"
	if tx.Type == core.Income {
		glyph, kind = "💰", "收入"
	}

	label := tx.Description
	if label == "" {
		label = tx.Category
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s 已記錄%s\n\n", glyph, kind)
	fmt.Fprintf(&b, "📝 %s\n", label)
	fmt.Fprintf(&b, "💵 %s\n", core.FormatAmount(tx.Amount))
	fmt.Fprintf(&b, "📁 分類: %s\n", tx.Category)
	fmt.Fprintf(&b, "📅 日期: %s\n\n", tx.Date.Format("2006/01/02"))
	fmt.Fprintf(&b, "📊 本月「%s」%s: %s", tx.Category, kind, core.FormatAmount(monthTotal))
	return Payload{Text: b.String()}
}

// DailyReport lists the day's expenses with a total line. An empty day
// gets a short notice instead of an empty table.
func (r *Renderer) DailyReport(rep report.DailyReport) Payload {
	if len(rep.Items) == 0 {
		return Payload{Text: "📅 今日尚無支出記錄"}
	}

	var b strings.Builder
	b.WriteString("📅 今日支出報表\n\n")
	for _, tx := range rep.Items {
		label := tx.Description
		if label == "" {
			label = tx.Category
		}
		fmt.Fprintf(&b, "• %s: %s\n", label, core.FormatAmount(tx.Amount))
	}
	b.WriteString("\n" + divider + "\n")
	fmt.Fprintf(&b, "💰 總計: %s", core.FormatAmount(rep.Total))
	return Payload{Text: b.String()}
}

// MonthlyReport shows the month's per-category expense breakdown with
// the lexicon glyph for each category.
func (r *Renderer) MonthlyReport(rep report.MonthlyReport) Payload {
	if len(rep.Categories) == 0 {
		return Payload{Text: "📊 本月尚無支出記錄"}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 本月支出報表 (%d月)\n\n", int(rep.Month))
	for _, c := range rep.Categories {
		fmt.Fprintf(&b, "%s %s: %s (%d%%)\n",
			r.lex.Glyph(c.Category), c.Category, core.FormatAmount(c.Amount), c.Percent)
	}
	b.WriteString("\n" + divider + "\n")
	fmt.Fprintf(&b, "💰 總計: %s\n", core.FormatAmount(rep.TotalExpense))
	fmt.Fprintf(&b, "💵 收入: %s\n", core.FormatAmount(rep.TotalIncome))
	fmt.Fprintf(&b, "⚖️ 結餘: %s", core.FormatAmount(rep.Balance))
	return Payload{Text: b.String()}
}

// Statistics pairs the month's expense chart with a caption.
func (r *Renderer) Statistics(rep report.MonthlyReport, chart []byte) Payload {
	caption := fmt.Sprintf("📊 %d月支出統計\n💰 總計: %s",
		int(rep.Month), core.FormatAmount(rep.TotalExpense))
	return Payload{Text: caption, Photo: chart}
}

// BudgetAlert warns that a budget crossed its warning or over band.
func (r *Renderer) BudgetAlert(br report.BudgetReport) Payload {
	var b strings.Builder
	if br.Band == report.BandOver {
		fmt.Fprintf(&b, "🚨 預算「%s」已超支！\n\n", br.Budget.Name)
	} else {
		fmt.Fprintf(&b, "⚠️ 預算「%s」即將用完\n\n", br.Budget.Name)
	}
	fmt.Fprintf(&b, "💵 已花費: %s (%d%%)\n", core.FormatAmount(br.Spent), br.Percent)
	fmt.Fprintf(&b, "🎯 預算上限: %s\n", core.FormatAmount(br.Budget.Amount))
	fmt.Fprintf(&b, "💰 剩餘: %s", core.FormatAmount(br.Remaining))
	return Payload{Text: b.String()}
}

// Help lists the message forms and commands the bot understands.
func (r *Renderer) Help() Payload {
	return Payload{Text: `📝 記帳指令說明

【快速記帳】
• 早餐 50
• 午餐 120 便當
• 交通 30 公車
• -50 飲料
• +5000 薪水

【查詢指令】
• 今日支出
• 本月支出
• 統計

【分類關鍵字】
🍔 飲食: 早餐、午餐、晚餐、飲料
🚗 交通: 公車、捷運、計程車、加油
🛍️ 購物: 購物、衣服、鞋子
🎮 娛樂: 電影、遊戲、旅遊
🏠 居住: 房租、水電、瓦斯
💰 收入: 薪水、獎金、兼職、紅包

輸入「幫助」可隨時查看此說明`}
}

// Unrecognized nudges the user toward the help text.
func (r *Renderer) Unrecognized() Payload {
	return Payload{Text: "🤔 看不懂這則訊息\n\n輸入「幫助」查看記帳方式"}
}

// Welcome greets a newly linked chat user.
func (r *Renderer) Welcome(name string) Payload {
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "🐰 %s，歡迎使用記帳小幫手！\n\n", name)
	} else {
		b.WriteString("🐰 歡迎使用記帳小幫手！\n\n")
	}
	b.WriteString("直接輸入「早餐 50」就能記帳\n輸入「幫助」查看完整說明")
	return Payload{Text: b.String()}
}
