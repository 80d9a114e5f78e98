/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
)

func serveHealthCheck(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte("Ok\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := `User-agent: Amazonbot
Disallow: /

User-agent: Applebot-Extended
Disallow: /

User-agent: Bytespider
Disallow: /

User-agent: CCBot
Disallow: /

User-agent: ClaudeBot
Disallow: /

User-agent: Google-Extended
Disallow: /

User-agent: GPTBot
Disallow: /

User-agent: meta-externalagent
Disallow: /`

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(data))
		if err != nil {
			errs <- err

			return
		}
	}
}

// Simple HTML client for quick testing. The production frontend lives
// elsewhere; this page speaks the same protocol and doubles as protocol
// documentation.
const clientHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Tilebox</title>
<style>
  body { font-family: system-ui, -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 2rem; }
  h1 { margin-bottom: 0.5rem; }
  #status { margin-bottom: 1rem; font-size: 0.9rem; }
  #phase { margin-bottom: 1rem; font-weight: bold; }
  table { border-collapse: collapse; }
  td, th { padding: 0.25rem 0.75rem; border-bottom: 1px solid #ddd; text-align: left; }
  #notices { margin-top: 1rem; color: #2a7; }
</style>
</head>
<body>
<h1>Tilebox</h1>
<div id="status">Connecting…</div>
<div id="phase"></div>
<table>
<thead><tr><th>Player</th><th>Puzzle</th><th>Done</th><th>Score</th><th>Time</th></tr></thead>
<tbody id="roster"></tbody>
</table>
<div id="notices"></div>

<script>
(function() {
  const statusEl = document.getElementById('status');
  const phaseEl = document.getElementById('phase');
  const rosterEl = document.getElementById('roster');
  const noticesEl = document.getElementById('notices');

  const proto = (location.protocol === 'https:') ? 'wss://' : 'ws://';
  const wsPath = location.pathname.replace(/\/$/, '') + '/ws';
  const ws = new WebSocket(proto + location.host + wsPath);

  ws.onopen = function() {
    statusEl.textContent = 'Connected.';

    const name = prompt('Enter your name (leave empty to spectate):') || '';
    if (name) {
      ws.send(JSON.stringify({
        type: 'join',
        persistent_id: localStorage.getItem('tilebox_id') || '',
        display_name: name,
        game_master: false
      }));
    }
  };

  ws.onmessage = function(event) {
    try {
      const msg = JSON.parse(event.data);

      if (msg.type === 'roster' && Array.isArray(msg.players)) {
        rosterEl.innerHTML = '';
        msg.players.forEach(function(p) {
          const tr = document.createElement('tr');
          [p.display_name + (p.game_master ? ' ★' : '') + (p.online ? '' : ' (offline)'),
           p.puzzle_index, p.completed, p.score, p.time_seconds + 's'].forEach(function(v) {
            const td = document.createElement('td');
            td.textContent = v;
            tr.appendChild(td);
          });
          rosterEl.appendChild(tr);
        });
        return;
      }

      if (msg.type === 'phase') {
        if (msg.persistent_id) {
          localStorage.setItem('tilebox_id', msg.persistent_id);
        }
        phaseEl.textContent = 'Phase: ' + msg.phase +
          (msg.total_puzzles ? ' (' + msg.total_puzzles + ' puzzles)' : '');
        return;
      }

      if (msg.type === 'puzzle_completed') {
        const div = document.createElement('div');
        div.textContent = msg.display_name + ' finished puzzle ' + (msg.puzzle_index + 1) +
          ' for ' + msg.puzzle_score + ' points!';
        noticesEl.prepend(div);
        setTimeout(function() { div.remove(); }, 5000);
        return;
      }
    } catch (e) {
      console.error('bad message', e);
    }
  };

  ws.onclose = function() {
    statusEl.textContent = 'Disconnected.';
  };

  ws.onerror = function() {
    statusEl.textContent = 'Error with WebSocket.';
  };
})();
</script>
</body>
</html>
`

func serveClientPage() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(clientHTML))
	}
}
