package render

import (
	"bytes"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/harrisonrobin/studyplan/pkg/notify"
	"github.com/harrisonrobin/studyplan/pkg/planner"
)

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"date":  func(t time.Time) string { return t.Format("Jan 2, 2006") },
	"clock": func(t time.Time) string { return t.Format("15:04") },
	"local": func(t time.Time) string { return t.Format("2006-01-02T15:04") },
	"ttl":   func(n notify.Notice) int64 { return n.Expires.Sub(n.Posted).Milliseconds() },
}

const listTmpl = `{{define "list"}}<div id="taskList" class="task-list">
{{- if not .Rows}}
  <div class="empty-state"><p>No tasks found in this category.</p></div>
{{- else}}{{range .Rows}}
  <div class="task-item {{.Class}}" data-id="{{.ID}}">
    <div class="task-header">
      <div class="task-title">{{.Title}}</div>
      <span class="task-priority priority-{{.Priority}}">{{upper (print .Priority)}}</span>
    </div>
    {{- if .Description}}
    <div class="task-description">{{.Description}}</div>
    {{- end}}
    <div class="task-meta">
      {{- if .Subject}}<span class="subject">{{.Subject}}</span>{{end}}
      <span class="date">{{date .DueDate.Time}}</span>
      <span class="time">{{clock .DueDate.Time}}</span>
      <span class="duration">{{.Duration}} min</span>
    </div>
    <div class="task-actions">
      <form method="post" action="/tasks/{{.ID}}/toggle">
        <button class="btn-small btn-complete">{{if .Completed}}Undo{{else}}Complete{{end}}</button>
      </form>
      <form method="post" action="/tasks/{{.ID}}/delete" onsubmit="return confirmDelete(this)">
        <input type="hidden" name="confirm" value="">
        <button class="btn-small btn-delete">Delete</button>
      </form>
    </div>
  </div>
{{- end}}{{end}}
</div>{{end}}`

const statsTmpl = `{{define "stats"}}<div id="stats" class="stats">
  <div class="stat"><span id="totalTasks">{{.Total}}</span> Total</div>
  <div class="stat"><span id="completedTasks">{{.Completed}}</span> Completed</div>
  <div class="stat"><span id="pendingTasks">{{.Pending}}</span> Pending</div>
  <div class="progress"><div id="progressBar" class="progress-bar" style="width: {{.Progress}}%">{{.Progress}}%</div></div>
</div>{{end}}`

const timelineTmpl = `{{define "timeline"}}<div id="timeline" class="timeline">
{{- if not .}}
  <div class="empty-state"><p>No tasks scheduled for today.</p></div>
{{- else}}{{range .}}
  <div class="timeline-item">
    <div class="timeline-time">{{clock .DueDate.Time}}</div>
    <div class="timeline-task">
      <strong>{{.Title}}</strong>
      {{- if .Subject}}<br><small>{{.Subject}}</small>{{end}}
      <br><small>{{.Duration}} minutes</small>
    </div>
  </div>
{{- end}}{{end}}
</div>{{end}}`

const noticesTmpl = `{{define "notices"}}<div id="notices">
{{- range .}}
  <div class="reminder-toast{{if .Urgent}} urgent{{end}}" data-id="{{.ID}}" data-ttl="{{ttl .}}">
    {{- if .Title}}<div class="reminder-header">{{.Title}}</div>{{end}}
    <div>{{.Message}}</div>
  </div>
{{- end}}
</div>{{end}}`

const pageTmpl = `{{define "page"}}<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Study Planner</title>
<style>
body{font-family:sans-serif;margin:2em;max-width:960px}
.task-item{border:1px solid #ddd;border-radius:6px;padding:.6em;margin:.4em 0}
.task-item.completed{opacity:.6}.task-item.completed .task-title{text-decoration:line-through}
.task-item.overdue{border-color:#e53e3e}
.task-header{display:flex;justify-content:space-between}
.task-meta span{margin-right:1em;color:#555}
.task-actions form{display:inline}
.priority-high{color:#e53e3e}.priority-medium{color:#d69e2e}.priority-low{color:#38a169}
.progress{background:#eee;border-radius:4px}.progress-bar{background:#667eea;color:#fff;text-align:center}
.filters a{margin-right:.5em}.filters a.active{font-weight:bold}
.reminder-toast{position:fixed;right:1em;background:#fff;border:1px solid #667eea;padding:.6em;margin-top:.4em}
.reminder-toast.urgent{border-color:#e53e3e}
</style>
</head>
<body>
<h1>Study Planner</h1>
{{template "notices" .Notices}}
<form id="taskForm" method="post" action="/tasks">
  <input name="title" placeholder="Task title" required>
  <input name="description" placeholder="Description">
  <input name="subject" placeholder="Subject">
  <input type="datetime-local" name="due" min="{{local .View.MinDue}}" required>
  <select name="priority" required>
    <option value="low">Low</option>
    <option value="medium" selected>Medium</option>
    <option value="high">High</option>
  </select>
  <input type="number" name="duration" min="1" value="30" required>
  <button type="submit">Add Task</button>
</form>
{{template "stats" .View.Stats}}
<div class="filters">
{{- range .Filters}}
  <a href="/?filter={{.}}" class="filter-btn{{if eq . $.View.Filter}} active{{end}}" data-filter="{{.}}">{{.}}</a>
{{- end}}
</div>
{{template "list" .View}}
<h2>Today</h2>
{{template "timeline" .View.Timeline}}
<script>
function confirmDelete(form) {
  if (!confirm('Are you sure you want to delete this task?')) return false;
  form.confirm.value = 'yes';
  return true;
}
var seen = {};
document.querySelectorAll('.reminder-toast').forEach(function (el) {
  seen[el.dataset.id] = true;
  setTimeout(function () { el.remove(); }, parseInt(el.dataset.ttl, 10));
});
function showNotice(n) {
  var left = Date.parse(n.expires) - Date.now();
  if (left <= 0) return;
  var el = document.createElement('div');
  el.className = 'reminder-toast' + (n.urgent ? ' urgent' : '');
  if (n.title) {
    var h = document.createElement('div');
    h.className = 'reminder-header';
    h.textContent = n.title;
    el.appendChild(h);
  }
  var m = document.createElement('div');
  m.textContent = n.message;
  el.appendChild(m);
  document.getElementById('notices').appendChild(el);
  setTimeout(function () { el.remove(); }, left);
}
function pollNotices() {
  fetch('/api/notices').then(function (r) { return r.json(); }).then(function (list) {
    (list || []).forEach(function (n) {
      if (seen[n.id]) return;
      seen[n.id] = true;
      showNotice(n);
    });
  }).catch(function () {});
}
function swap(id, html) {
  var el = document.getElementById(id);
  if (el && html) el.outerHTML = html;
}
function refreshView() {
  fetch('/api/partials').then(function (r) { return r.json(); }).then(function (p) {
    swap('taskList', p.list);
    swap('stats', p.stats);
    swap('timeline', p.timeline);
  }).catch(function () {});
}
setInterval(pollNotices, {{.NoticePoll}});
setInterval(refreshView, {{.Refresh}});
</script>
</body>
</html>{{end}}`

var templates = template.Must(template.New("studyplan").Funcs(funcs).Parse(
	listTmpl + statsTmpl + timelineTmpl + noticesTmpl + pageTmpl,
))

// Page is the data behind the full HTML page. NoticePoll and Refresh are the
// browser's polling periods in milliseconds for notices and for the task fragments.
type Page struct {
	View       planner.View
	Notices    []notify.Notice
	Filters    []planner.Filter
	NoticePoll int64
	Refresh    int64
}

const (
	DefaultNoticePoll = 2 * time.Second
	DefaultRefresh    = 30 * time.Second
)

func NewPage(v planner.View, notices []notify.Notice) Page {
	return Page{
		View:       v,
		Notices:    notices,
		Filters:    planner.Filters,
		NoticePoll: DefaultNoticePoll.Milliseconds(),
		Refresh:    DefaultRefresh.Milliseconds(),
	}
}

func WritePage(w io.Writer, p Page) error {
	return templates.ExecuteTemplate(w, "page", p)
}

// TaskList renders the filtered list with its complete/undo and delete controls.
func TaskList(v planner.View) (string, error) {
	return execute("list", v)
}

func StatsPanel(s planner.Stats) (string, error) {
	return execute("stats", s)
}

func TimelineView(tasks []model.Task) (string, error) {
	return execute("timeline", tasks)
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
