package http

const chartPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Title}}</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:system-ui,Arial,sans-serif;background:#fff;color:#333;font-size:14px;line-height:1.4;padding:20px}
h1{font-size:18px;margin-bottom:8px}
.cards{display:flex;gap:12px;flex-wrap:wrap;margin-bottom:12px}
.card{border:1px solid #ddd;border-radius:6px;padding:8px 12px;min-width:110px}
.card .val{font-size:18px;font-weight:700}
.card .lbl{font-size:11px;color:#666}
.err{color:#c0392b;margin-bottom:12px}
.nav{display:flex;gap:8px;margin-top:12px;align-items:center}
.nav button{padding:4px 14px;font-size:13px;cursor:pointer}
.nav button:disabled{cursor:default;opacity:.4}
.dim{color:#666;font-size:12px}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .FetchError}}<p class="err">Run history could not be loaded.</p>{{end}}
<div class="cards">
  <div class="card"><div class="val">{{.Summary.Total}}</div><div class="lbl">runs</div></div>
  <div class="card"><div class="val">{{.Summary.Failures}}</div><div class="lbl">not successful</div></div>
  <div class="card"><div class="val">{{printf "%.1f" .Summary.MeanDuration}}s</div><div class="lbl">mean duration</div></div>
  {{if .Summary.Latest}}<div class="card"><div class="val">{{.Summary.Latest}}</div><div class="lbl">latest version</div></div>{{end}}
</div>
<canvas id="myChart"></canvas>
<form method="get" action="/" class="nav">
  <input type="hidden" name="load" value="{{.LoadID}}">
  <input type="hidden" name="cursor" value="{{.View.Cursor}}">
  <button id="prevBtn" name="nav" value="prev" {{if not .View.CanBackward}}disabled{{end}}>Previous</button>
  <button id="nextBtn" name="nav" value="next" {{if not .View.CanForward}}disabled{{end}}>Next</button>
  {{if not .View.Empty}}<span class="dim">runs {{add .View.Cursor 1}}–{{add .View.Cursor (len .View.Values)}} of {{.View.Total}}</span>{{end}}
</form>
<script src="{{.ChartJSURL}}"></script>
<script>
const view = {{.View}};
const hover = {{.Hover}};
if (view.labels.length > 0) {
  new Chart(document.getElementById('myChart').getContext('2d'), {
    type: 'bar',
    data: {
      labels: view.labels,
      datasets: [{
        label: view.dataset_label,
        data: view.values,
        backgroundColor: view.fill_colors,
        borderColor: view.outline_colors,
        borderWidth: 1,
        hoverBackgroundColor: hover.fill,
        hoverBorderColor: hover.outline
      }]
    },
    options: {
      responsive: true,
      scales: {
        x: { ticks: { color: function (context) { return view.tick_colors[context.index]; } } },
        y: { beginAtZero: true }
      },
      plugins: {
        tooltip: {
          callbacks: {
            label: function (item) { return view.tooltips[item.dataIndex].lines; },
            title: function (items) { return view.tooltips[items[0].dataIndex].title; }
          }
        }
      }
    }
  });
}
document.addEventListener('keydown', function (event) {
  if (event.key === 'ArrowLeft') {
    document.getElementById('prevBtn').click();
  } else if (event.key === 'ArrowRight') {
    document.getElementById('nextBtn').click();
  }
});
</script>
</body>
</html>
`
