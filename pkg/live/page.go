package live

import (
	"html/template"

	"github.com/recera/polynet/pkg/state"
)

type pageData struct {
	Title     string
	SessionID string
	Slots     []state.ColorSlot
	Colors    state.Colors
}

var page = template.Must(template.New("page").Funcs(template.FuncMap{
	"color": func(c state.Colors, slot state.ColorSlot) string { return c.Get(slot) },
}).Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1, user-scalable=no">
<title>{{.Title}}</title>
<style>
html, body { margin: 0; height: 100%; overflow: hidden; }
body { background: {{.Colors.Background}}; touch-action: none; font-family: sans-serif; }
#stage { display: flex; align-items: center; justify-content: center; height: 100%; }
#pickers { position: fixed; top: 12px; left: 12px; display: flex; gap: 8px; z-index: 10; }
#pickers input { width: 36px; height: 36px; border: 0; padding: 0; background: none; cursor: pointer; }
#status { position: fixed; bottom: 8px; right: 12px; color: #888; font-size: 12px; }
</style>
</head>
<body>
<div id="pickers">
{{- range .Slots}}
  <input type="color" data-slot="{{.}}" title="{{.}} color" value="{{color $.Colors .}}">
{{- end}}
</div>
<div id="stage"></div>
<div id="status"></div>
<script>
(function () {
  var sessionID = {{.SessionID}};
  var stage = document.getElementById("stage");
  var pickers = document.getElementById("pickers");
  var status = document.getElementById("status");
  var scheme = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(scheme + "//" + location.host + "/live/" + sessionID);

  function send(msg) {
    if (ws.readyState === WebSocket.OPEN) {
      ws.send(JSON.stringify(msg));
    }
  }

  function viewport() {
    return {
      width: window.innerWidth || document.documentElement.clientWidth,
      height: window.innerHeight || document.documentElement.clientHeight
    };
  }

  function download(msg) {
    var blob = new Blob([msg.svg], { type: msg.contentType });
    var url = URL.createObjectURL(blob);
    var link = document.createElement("a");
    link.href = url;
    link.download = msg.filename;
    document.body.appendChild(link);
    link.click();
    document.body.removeChild(link);
    setTimeout(function () { URL.revokeObjectURL(url); }, 0);
  }

  ws.onopen = function () {
    var v = viewport();
    send({ type: "hello", width: v.width, height: v.height });
  };

  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    switch (msg.type) {
    case "frame":
      stage.innerHTML = msg.svg;
      document.body.style.background = msg.colors.background;
      pickers.style.display = msg.pickers ? "flex" : "none";
      pickers.querySelectorAll("input").forEach(function (input) {
        var value = msg.colors[input.dataset.slot];
        if (input.value !== value) { input.value = value; }
      });
      break;
    case "export":
      download(msg);
      break;
    case "error":
      status.textContent = msg.message;
      break;
    }
  };

  ws.onclose = function () {
    status.textContent = "disconnected, reload to reconnect";
  };

  window.addEventListener("resize", function () {
    var v = viewport();
    send({ type: "resize", width: v.width, height: v.height });
  }, true);

  var keyNames = { ArrowUp: "up", ArrowDown: "down", ArrowLeft: "left", ArrowRight: "right" };
  var bound = { c: true, r: true, up: true, down: true };

  window.addEventListener("keydown", function (ev) {
    if (ev.target && ev.target.tagName === "INPUT" && ev.target.type !== "color") { return; }
    var key = keyNames[ev.key] || ev.key.toLowerCase();
    var mod = ev.ctrlKey || ev.metaKey;
    if (bound[key] || (key === "s" && mod)) {
      ev.preventDefault();
    }
    send({ type: "key", key: key, ctrl: ev.ctrlKey, meta: ev.metaKey });
  }, true);

  pickers.addEventListener("input", function (ev) {
    send({ type: "color", slot: ev.target.dataset.slot, value: ev.target.value });
  });

  var start = null;
  function spread(touches) {
    var dx = touches[0].clientX - touches[1].clientX;
    var dy = touches[0].clientY - touches[1].clientY;
    return Math.sqrt(dx * dx + dy * dy);
  }

  document.addEventListener("touchstart", function (ev) {
    if (ev.touches.length === 2) {
      start = { pinch: true, spread: spread(ev.touches) };
    } else if (ev.touches.length === 1) {
      start = { pinch: false, x: ev.touches[0].clientX, y: ev.touches[0].clientY, t: Date.now() };
    }
  }, { passive: true });

  document.addEventListener("touchmove", function (ev) {
    if (start && start.pinch && ev.touches.length === 2) {
      start.last = spread(ev.touches);
    }
    ev.preventDefault();
  }, { passive: false });

  document.addEventListener("touchend", function (ev) {
    if (!start) { return; }
    if (start.pinch) {
      if (start.last && start.spread > 0) {
        send({ type: "pinch", scale: start.last / start.spread });
      }
    } else if (ev.changedTouches.length === 1 && Date.now() - start.t < 1000) {
      var dx = ev.changedTouches[0].clientX - start.x;
      var dy = ev.changedTouches[0].clientY - start.y;
      if (Math.max(Math.abs(dx), Math.abs(dy)) >= 30) {
        var direction = Math.abs(dy) >= Math.abs(dx) ? (dy > 0 ? "down" : "up") : (dx > 0 ? "right" : "left");
        send({ type: "swipe", direction: direction });
      }
    }
    start = null;
  }, { passive: true });
})();
</script>
</body>
</html>
`
