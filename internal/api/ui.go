package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

const operatorUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Sentient Cutscene - Operator</title>
    <style>
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body { font-family: monospace; background: #1a1a2e; color: #eee; height: 100vh; display: flex; flex-direction: column; }
        header { background: #16213e; padding: 12px 20px; border-bottom: 1px solid #0f3460; display: flex; justify-content: space-between; align-items: center; }
        header h1 { font-size: 16px; font-weight: normal; }
        #status { padding: 4px 10px; border-radius: 4px; font-size: 12px; }
        #status.connected { background: #1b4332; color: #95d5b2; }
        #status.disconnected { background: #7f1d1d; color: #fca5a5; }
        .controls { padding: 10px 20px; background: #16213e; display: flex; gap: 8px; flex-wrap: wrap; }
        button { background: #0f3460; color: #eee; border: none; padding: 6px 12px; border-radius: 4px; cursor: pointer; font-family: monospace; }
        button:hover { background: #1a4a7a; }
        button.stop { background: #7f1d1d; }
        input { background: #1a1a2e; color: #eee; border: 1px solid #0f3460; padding: 6px; font-family: monospace; }
        #scene { padding: 10px 20px; border-bottom: 1px solid #0f3460; font-size: 13px; }
        #scene .line { color: #fcd34d; margin-top: 6px; }
        #choices button { margin: 6px 6px 0 0; }
        #log { flex: 1; overflow-y: auto; padding: 10px 20px; font-size: 12px; }
        .event { padding: 2px 0; border-bottom: 1px solid #222; }
        .event .ts { color: #888; }
        .event.error .name { color: #fca5a5; }
        .event.warn .name { color: #fcd34d; }
        #result { padding: 4px 20px; font-size: 12px; min-height: 20px; }
    </style>
</head>
<body>
    <header>
        <h1>Sentient Cutscene</h1>
        <span id="status" class="disconnected">disconnected</span>
    </header>
    <div class="controls">
        <button onclick="send('advance')">Advance</button>
        <button onclick="send('skip')">Skip beat</button>
        <button onclick="send('pause')">Pause</button>
        <button onclick="send('resume')">Resume</button>
        <button class="stop" onclick="send('stop')">Stop</button>
        <input id="signalKey" placeholder="signal key">
        <button onclick="send('signal', {key: val('signalKey')})">Signal</button>
        <input id="beatId" placeholder="beat id">
        <button onclick="send('goto', {beat_id: val('beatId')})">Goto</button>
    </div>
    <div id="scene"></div>
    <div id="result"></div>
    <div id="log"></div>
    <script>
        var log = document.getElementById('log');
        var statusEl = document.getElementById('status');

        function val(id) { return document.getElementById(id).value.trim(); }

        function send(cmd, body) {
            fetch('/cutscene/' + cmd, {
                method: 'POST',
                headers: {'Content-Type': 'application/json'},
                body: JSON.stringify(body || {})
            })
            .then(function(res) { return res.json(); })
            .then(function(data) {
                document.getElementById('result').textContent = data.ok ? cmd + ': ok' : cmd + ': ' + data.error;
            })
            .catch(function(err) {
                document.getElementById('result').textContent = cmd + ': ' + err;
            });
        }

        function renderScene(s) {
            var el = document.getElementById('scene');
            var html = '<div>' + (s.cutscene_id || '-') + ' / ' + (s.beat_id || '-') +
                ' [' + s.lifecycle + ', ' + s.phase + ']</div>';
            if (s.dialogue && s.dialogue.visible) {
                var shown = Array.from(s.dialogue.text).slice(0, s.dialogue.revealed).join('');
                html += '<div class="line">' + (s.dialogue.speaker || '') + ': ' + shown + '</div>';
            }
            if (s.choice && s.choice.active) {
                html += '<div id="choices">' + (s.choice.prompt || '');
                s.choice.options.forEach(function(o) {
                    html += '<button onclick="send(\'choose\', {choice_id: \'' + o.id + '\'})">' + o.line + '</button>';
                });
                html += '</div>';
            }
            el.innerHTML = html;
        }

        function renderEvent(e) {
            var div = document.createElement('div');
            div.className = 'event ' + e.level;
            div.innerHTML = '<span class="ts">' + e.ts.substring(11, 23) + '</span> <span class="name">' +
                e.event + '</span> ' + (e.fields ? JSON.stringify(e.fields) : '');
            log.insertBefore(div, log.firstChild);
            while (log.children.length > 500) { log.removeChild(log.lastChild); }
        }

        function wsURL(path) {
            return (location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + path;
        }

        function connect(path, onMessage) {
            var ws = new WebSocket(wsURL(path));
            ws.onopen = function() { statusEl.className = 'connected'; statusEl.textContent = 'connected'; };
            ws.onmessage = function(msg) { onMessage(JSON.parse(msg.data)); };
            ws.onclose = function() {
                statusEl.className = 'disconnected';
                statusEl.textContent = 'disconnected';
                setTimeout(function() { connect(path, onMessage); }, 2000);
            };
        }

        var skipKey = __SKIP_KEY__;
        document.addEventListener('keydown', function(e) {
            if (e.target.tagName === 'INPUT') { return; }
            var name = e.key === ' ' ? 'space' : e.key.toLowerCase();
            if (name === skipKey) {
                e.preventDefault();
                send('advance');
            }
        });

        connect('/ws/events', renderEvent);
        connect('/ws/state', renderScene);
    </script>
</body>
</html>
`

var skipKey = "space"

// SetSkipKey sets the keyboard key the operator page maps to advance.
func SetSkipKey(key string) {
	if key != "" {
		skipKey = strings.ToLower(key)
	}
}

func uiHandler(w http.ResponseWriter, r *http.Request) {
	quoted, _ := json.Marshal(skipKey)
	page := strings.Replace(operatorUIHTML, "__SKIP_KEY__", string(quoted), 1)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}
