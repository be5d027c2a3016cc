package tool

import (
	"github.com/cloudwego/eino/schema"
)

// ToolLeadCapture is the single side-effecting action the assistant may
// request.
const ToolLeadCapture = "lead_capture"

// CaptureToolInfo describes the capture action for tool binding.
func CaptureToolInfo() *schema.ToolInfo {
	return &schema.ToolInfo{
		Name: ToolLeadCapture,
		Desc: "Capture a sales lead once the full name, email address, and content platform are all known. Never call it with missing or guessed values.",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"name": {
				Type:     schema.String,
				Desc:     "Lead's full name",
				Required: true,
			},
			"email": {
				Type:     schema.String,
				Desc:     "Lead's email address",
				Required: true,
			},
			"platform": {
				Type:     schema.String,
				Desc:     "Content creation platform (YouTube, Instagram, TikTok, ...)",
				Required: true,
			},
		}),
	}
}
