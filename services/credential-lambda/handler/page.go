package handler

import (
	"bytes"
	"html/template"

	"github.com/hms-services/services/credential-lambda/models"
)

const apiBase = "/api/admin/credentials"

var pageTmpl = template.Must(template.New("credentials").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Password Reset Credentials</title>
<style>
body{font-family:Arial,sans-serif;background:#f5f5f5;margin:0;padding:40px}
.card{max-width:640px;margin:0 auto;background:#fff;border-radius:12px;padding:32px;box-shadow:0 4px 15px rgba(0,0,0,.1)}
h1{color:#0E7C86;font-size:22px;margin-top:0}
table{width:100%;border-collapse:collapse;margin:20px 0}
td{padding:10px;border-bottom:1px solid #eee}
td.label{color:#666;width:160px}
.password{font-family:monospace;font-size:18px;font-weight:bold}
.warning{background:#FFF8E1;border:1px solid #FFE082;border-radius:8px;padding:12px;margin-bottom:16px}
button{padding:10px 18px;border:0;border-radius:6px;cursor:pointer;margin-right:8px}
.primary{background:#0E7C86;color:#fff}.danger{background:#c62828;color:#fff}
#notifications{position:fixed;top:20px;right:20px;width:320px}
.notice{padding:12px 16px;border-radius:6px;margin-bottom:8px;color:#fff}
.notice.success{background:#2e7d32}.notice.error{background:#c62828}.notice.info{background:#0E7C86}
</style>
</head>
<body>
<div id="notifications"></div>
<div class="card">
<h1>HOSPITAL MANAGEMENT SYSTEM - PASSWORD RESET CREDENTIALS</h1>
{{if .GuardActive}}<div class="warning" id="unsaved-warning"><strong>These credentials have not been saved.</strong> Download the file before leaving this page.</div>{{end}}
{{with .ResetData}}
<table>
<tr><td class="label">Username</td><td id="username">{{.Username}}</td></tr>
<tr><td class="label">New Password</td><td class="password" id="password">{{.NewPassword}}</td></tr>
<tr><td class="label">Reset Time</td><td>{{.ResetTime.Format "2006-01-02 15:04:05"}}</td></tr>
<tr><td class="label">Generated By</td><td>{{$.GeneratedBy}}</td></tr>
</table>
{{else}}
<p>No credentials available.</p>
{{end}}
<button class="primary" id="download-txt">Download credentials (.txt)</button>
<button class="primary" id="download-pdf">Download PDF</button>
{{if .GuardActive}}<button id="acknowledge">I have saved the file</button>{{end}}
<button class="danger" id="confirm-reset">Reset and generate new password</button>
<p style="color:#999;font-size:12px">Session expires at {{.ExpiresAt.Format "2006-01-02 15:04:05 MST"}}</p>
</div>
<script>
(function () {
  const sessionId = {{.SessionID}};
  const api = {{.APIBase}};
  let guardActive = {{.GuardActive}};

  function guard(e) {
    e.preventDefault();
    e.returnValue = "";
    return "";
  }
  if (guardActive) {
    window.addEventListener("beforeunload", guard);
  }
  function disarm() {
    if (guardActive) {
      window.removeEventListener("beforeunload", guard);
      guardActive = false;
    }
  }

  function notify(message, kind) {
    const el = document.createElement("div");
    el.className = "notice " + (kind || "info");
    el.textContent = message;
    document.getElementById("notifications").appendChild(el);
    setTimeout(function () { el.remove(); }, 5000);
  }

  async function download(path, fallbackName) {
    const res = await fetch(api + path + "?session=" + encodeURIComponent(sessionId), { credentials: "same-origin" });
    if (!res.ok) {
      const body = await res.json().catch(function () { return {}; });
      notify(body.error || "Download failed", "error");
      return;
    }
    const disposition = res.headers.get("Content-Disposition") || "";
    const match = /filename="([^"]+)"/.exec(disposition);
    const blob = await res.blob();
    const url = URL.createObjectURL(blob);
    const a = document.createElement("a");
    a.href = url;
    a.download = match ? match[1] : fallbackName;
    document.body.appendChild(a);
    a.click();
    document.body.removeChild(a);
    URL.revokeObjectURL(url);
    notify("Credentials downloaded", "success");
  }

  async function post(path, payload) {
    const res = await fetch(api + path, {
      method: "POST",
      credentials: "same-origin",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify(payload)
    });
    const body = await res.json().catch(function () { return {}; });
    if (!res.ok) {
      throw new Error(body.error || "Request failed");
    }
    return body.data;
  }

  document.getElementById("download-txt").addEventListener("click", function () {
    download("/download", "credentials.txt");
  });
  document.getElementById("download-pdf").addEventListener("click", function () {
    download("/download-pdf", "credentials.pdf");
  });

  const ack = document.getElementById("acknowledge");
  if (ack) {
    ack.addEventListener("click", async function () {
      try {
        await post("/acknowledge", { sessionId: sessionId });
        disarm();
        const w = document.getElementById("unsaved-warning");
        if (w) { w.remove(); }
        ack.remove();
        notify("Marked as saved", "success");
      } catch (err) {
        notify(err.message, "error");
      }
    });
  }

  document.getElementById("confirm-reset").addEventListener("click", async function () {
    if (!window.confirm("Discard these credentials and generate a new password? The current password stops working immediately.")) {
      return;
    }
    try {
      await post("/confirm-reset", { sessionId: sessionId, confirm: true });
      disarm();
      window.location.reload();
    } catch (err) {
      notify(err.message, "error");
    }
  });
})();
</script>
</body>
</html>
`))

var errorTmpl = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en"><head><meta charset="utf-8"><title>Credentials unavailable</title></head>
<body style="font-family:Arial,sans-serif;padding:40px"><h1>Credentials unavailable</h1><p>{{.}}</p></body></html>
`))

type pageData struct {
	*models.SessionResponse
	APIBase string
}

// RenderPage renders the credential page for a session
func RenderPage(s *models.SessionResponse) (string, error) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, pageData{SessionResponse: s, APIBase: apiBase}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderErrorPage(message string) string {
	var buf bytes.Buffer
	if err := errorTmpl.Execute(&buf, message); err != nil {
		return "Credentials unavailable"
	}
	return buf.String()
}
