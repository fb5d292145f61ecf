package restapi

import (
	"bytes"
	"html/template"
	"strconv"

	"aura_gateway/internal/app/port"
)

type callbackData struct {
	SessionID              string                  `json:"sessionId"`
	Operation              string                  `json:"operation"`
	Status                 string                  `json:"status"`
	TransactionDetails     *port.TransactionStatus `json:"transactionDetails"`
	TransactionError       string                  `json:"transactionError,omitempty"`
	PortfolioRefreshNeeded bool                    `json:"portfolioRefreshNeeded"`
	NextSteps              []string                `json:"nextSteps"`
}

type callbackPageView struct {
	Title   string
	Heading string
	Icon    string
	Tone    string
	GasUsed string
	Data    callbackData
	Message map[string]any
}

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}} - MCP AURA</title>
    <style>
        body { font-family: system-ui, sans-serif; background: #f9fafb; min-height: 100vh; display: flex; align-items: center; justify-content: center; margin: 0; padding: 1rem; }
        .card { max-width: 28rem; width: 100%; background: #fff; border-radius: .5rem; box-shadow: 0 10px 15px rgba(0,0,0,.1); padding: 1.5rem; }
        .icon { width: 4rem; height: 4rem; border-radius: 9999px; display: flex; align-items: center; justify-content: center; margin: 0 auto 1rem; font-size: 1.5rem; }
        .green { background: #dcfce7; color: #16a34a; } .red { background: #fee2e2; color: #dc2626; } .yellow { background: #fef9c3; color: #ca8a04; }
        .details { background: #f9fafb; border-radius: .5rem; padding: 1rem; margin-bottom: 1.5rem; font-size: .875rem; }
        .row { display: flex; justify-content: space-between; margin: .5rem 0; }
        .actions { display: flex; gap: .75rem; } .actions button { flex: 1; padding: .5rem 1rem; border: 0; border-radius: .5rem; color: #fff; cursor: pointer; }
    </style>
</head>
<body>
<div class="card">
    <div style="text-align:center;margin-bottom:1.5rem">
        <div class="icon {{.Tone}}">{{.Icon}}</div>
        <h1>{{.Heading}}</h1>
        <p style="text-transform:capitalize">{{.Data.Operation}} operation {{.Data.Status}}</p>
    </div>
    {{with .Data.TransactionDetails}}
    <div class="details">
        <h3>Transaction Details</h3>
        <div class="row"><span>Network:</span><span>{{.Network}}</span></div>
        <div class="row"><span>Status:</span><span>{{.Status}}</span></div>
        {{if $.GasUsed}}<div class="row"><span>Gas Used:</span><span>{{$.GasUsed}}</span></div>{{end}}
        {{if .ExplorerURL}}<div class="row"><span>Transaction:</span><a href="{{.ExplorerURL}}" target="_blank" rel="noopener">View on Explorer</a></div>{{end}}
    </div>
    {{end}}
    <h3>Next Steps</h3>
    <ul>
        {{range .Data.NextSteps}}<li>{{.}}</li>{{end}}
    </ul>
    <div class="actions">
        <button style="background:#4b5563" onclick="window.close()">Close</button>
        <button style="background:#2563eb" onclick="window.location.href='/'">Return to App</button>
    </div>
</div>
<script>
    if (window.opener) {
        setTimeout(function () { window.close(); }, 30000);
    }
    if (window.parent !== window) {
        window.parent.postMessage({ type: 'MCP_TRANSACTION_CALLBACK', data: {{.Message}} }, '*');
    }
</script>
</body>
</html>
`))

func renderCallbackPage(success bool, data callbackData) ([]byte, error) {
	view := callbackPageView{
		Data:    data,
		Message: map[string]any{"success": success, "data": data},
	}
	switch data.Status {
	case "success":
		view.Title, view.Heading, view.Icon, view.Tone = "Transaction Successful", "Transaction Successful!", "✓", "green"
	case "fail":
		view.Title, view.Heading, view.Icon, view.Tone = "Transaction Failed", "Transaction Failed", "✕", "red"
	default:
		view.Title, view.Heading, view.Icon, view.Tone = "Transaction Cancelled", "Transaction Cancelled", "❚❚", "yellow"
	}
	if data.TransactionDetails != nil && data.TransactionDetails.GasUsed != "" {
		view.GasUsed = groupThousands(data.TransactionDetails.GasUsed)
	}

	var buf bytes.Buffer
	if err := callbackPage.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func groupThousands(s string) string {
	if _, err := strconv.ParseUint(s, 10, 64); err != nil || len(s) <= 3 {
		return s
	}
	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
