// internal/report/html.go

package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
)

// reportView carries the page title plus the comparison serialized for the
// embedded script block.
type reportView struct {
	Title          string
	ComparisonJSON template.JS
}

// HTML renders the comparison as a standalone dashboard page. The page
// builds its tables client-side from the embedded JSON, so it needs nothing
// beyond public CDNs.
func (c Comparison) HTML() (string, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("error marshaling comparison: %w", err)
	}

	view := reportView{
		Title:          "modeleval: Behavioral Evaluation Report",
		ComparisonJSON: template.JS(payload),
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("error rendering report template: %w", err)
	}
	return buf.String(), nil
}

var htmlTemplate = template.Must(template.New("eval-report").Parse(htmlTemplateBody))

const htmlTemplateBody = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css">
  <link href="https://fonts.googleapis.com/icon?family=Material+Icons+Two+Tone" rel="stylesheet">
  <style>
    :root {
      --primary: #334155;
      --secondary: #64748B;
      --accent: #3B82F6;
      --light: #F1F5F9;
      --background: #FFFFFF;
      --text: #0F172A;
      --success: #10B981;
      --warning: #F59E0B;
      --border: #E2E8F0;
    }
    [data-theme="dark"] {
      --primary: #0F172A;
      --secondary: #94A3B8;
      --accent: #60A5FA;
      --light: #0B1220;
      --background: #0F172A;
      --text: #E2E8F0;
      --success: #34D399;
      --warning: #FBBF24;
      --border: rgba(148, 163, 184, 0.25);
    }
    body {
      background-color: var(--light);
      color: var(--text);
    }
    .navbar-dark {
      background-color: var(--primary) !important;
    }
    .navbar-dark .navbar-brand,
    .navbar-dark .text-light {
      color: var(--light) !important;
    }
    .card {
      border: 1px solid var(--border);
      background-color: var(--background);
    }
    .card-header {
      background-color: var(--background);
      border-color: var(--border);
    }
    .table thead th { cursor: pointer; }
    .table thead th,
    .table thead td {
      background-color: var(--light);
      color: var(--text);
      border-color: var(--border);
    }
    .table-striped>tbody>tr:nth-of-type(odd)>* {
      --bs-table-accent-bg: var(--light);
    }
    .table-bordered>:not(caption)>* {
      border-color: var(--border);
    }
    .sort { font-size: 0.9rem; vertical-align: middle; }
    .family-table>tbody>tr>td.top-performer {
      background-color: #DBEAFE;
      font-weight: 600;
      color: var(--text);
    }
    .chart-card {
      background: var(--background);
      border-radius: 16px;
      padding: 1.5rem;
      box-shadow: 0 1px 3px rgba(15, 23, 42, 0.1);
      border: 1px solid var(--border);
    }
    .chart-title {
      font-size: 1.5rem;
      font-weight: 700;
      color: var(--text);
      margin-bottom: 0.25rem;
    }
    .chart-subtitle {
      color: var(--secondary);
      margin-bottom: 1.5rem;
    }
    .chart-canvas {
      position: relative;
      height: 380px;
    }
    .theme-toggle {
      border: 1px solid var(--border);
      color: var(--light);
    }
    [data-theme="dark"] .theme-toggle {
      color: var(--text);
      background-color: rgba(148, 163, 184, 0.15);
    }
    [data-theme="dark"] .family-table>tbody>tr>td.top-performer {
      background-color: rgba(96, 165, 250, 0.25);
    }
    [data-theme="dark"] .chart-card {
      box-shadow: 0 10px 28px rgba(2, 6, 23, 0.6);
    }
  </style>
</head>
<body>
  <nav class="navbar navbar-dark">
    <div class="container-fluid">
      <span class="navbar-brand mb-0 h1">{{ .Title }}</span>
      <div class="d-flex align-items-center gap-3">
        <button class="btn btn-sm theme-toggle" id="themeToggle" type="button" aria-label="Toggle dark mode">
          <span class="material-icons-two-tone" aria-hidden="true">dark_mode</span>
        </button>
        <span class="text-light">Run: <span id="runId">-</span></span>
        <span class="text-light">Generated: <span id="generatedAt">-</span></span>
      </div>
    </div>
  </nav>
  <main class="container-fluid my-4">
    <div class="row g-3">
      <div class="col-sm-6 col-lg-3">
        <div class="card shadow-sm h-100">
          <div class="card-body">
            <p class="text-muted mb-1">Safest Responder</p>
            <h5 class="card-title" id="card-hallucination">-</h5>
          </div>
        </div>
      </div>
      <div class="col-sm-6 col-lg-3">
        <div class="card shadow-sm h-100">
          <div class="card-body">
            <p class="text-muted mb-1">Most Consistent</p>
            <h5 class="card-title" id="card-brittleness">-</h5>
          </div>
        </div>
      </div>
      <div class="col-sm-6 col-lg-3">
        <div class="card shadow-sm h-100">
          <div class="card-body">
            <p class="text-muted mb-1">Best Structured Output</p>
            <h5 class="card-title" id="card-structured-output">-</h5>
          </div>
        </div>
      </div>
      <div class="col-sm-6 col-lg-3">
        <div class="card shadow-sm h-100">
          <div class="card-body">
            <p class="text-muted mb-1">Best Tool Use</p>
            <h5 class="card-title" id="card-tool-use">-</h5>
          </div>
        </div>
      </div>
    </div>

    <div id="familySections"></div>

    <section class="mt-4">
      <div class="card shadow-sm chart-card">
        <div class="card-body">
          <div class="chart-title">Headline Pass Rates</div>
          <div class="chart-subtitle">One representative metric per behavior family; higher is better.</div>
          <div class="chart-canvas">
            <canvas id="headlineChart" aria-label="Headline pass rates by family" role="img"></canvas>
          </div>
          <div id="headlineChartEmpty" class="text-muted small mt-2"></div>
        </div>
      </div>
    </section>

    <section class="mt-4" id="costsSection">
      <div class="card shadow-sm">
        <div class="card-header">
          <h5 class="mb-0">Costs <span class="badge bg-secondary" id="totalCost"></span></h5>
        </div>
        <div class="card-body">
          <div class="table-responsive">
            <table class="table table-striped table-hover table-bordered table-sm" id="costsTable">
              <thead class="table-light">
                <tr>
                  <th>Model</th>
                  <th>Calls</th>
                  <th>Input Tokens</th>
                  <th>Output Tokens</th>
                  <th>Cost</th>
                </tr>
              </thead>
              <tbody></tbody>
            </table>
          </div>
        </div>
      </div>
    </section>
  </main>

  <script src="https://code.jquery.com/jquery-3.7.1.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/js/bootstrap.bundle.min.js"></script>
  <script src="https://cdn.jsdelivr.net/npm/chart.js@4.4.2/dist/chart.umd.min.js"></script>
  <script>
    var comparison = {{ .ComparisonJSON }};
  </script>
  <script>
    (function($) {
      var HEADLINE = {
        'hallucination': 'safe',
        'brittleness': 'consistency_rate',
        'structured-output': 'schema_valid',
        'tool-use': 'both_correct'
      };

      var METRIC_MODES = {
        'exact_match': 'max',
        'has_hallucination': 'min',
        'safe': 'max',
        'refusal_is_good': 'max',
        'semantic_similarity': 'max',
        'consistency_rate': 'max',
        'unique_answer_count': 'min',
        'accuracy_rate': 'max',
        'keyword_fraction_rate': 'max',
        'refusal_variance': 'min',
        'valid_json': 'max',
        'schema_valid': 'max',
        'violation_count': 'min',
        'retry_success': 'max',
        'tool_selected_correct': 'max',
        'parameter_accuracy': 'max',
        'both_correct': 'max'
      };

      var PALETTE = [
        '#334155', '#3B82F6', '#10B981', '#F59E0B', '#64748B',
        '#1D4ED8', '#0EA5E9', '#14B8A6', '#94A3B8', '#CBD5E1'
      ];

      function rateOf(row, metric) {
        if (!row.rates || row.rates[metric] === null || row.rates[metric] === undefined) {
          return null;
        }
        return Number(row.rates[metric]);
      }

      function formatRate(kind, value) {
        if (value === null || value === undefined || isNaN(value)) {
          return '—';
        }
        if (kind === 'bool') {
          return (Number(value) * 100).toFixed(1) + '%';
        }
        return Number(value).toFixed(2);
      }

      function createRateCell(kind, value) {
        var $td = $('<td></td>').text(formatRate(kind, value));
        if (value !== null && value !== undefined && !isNaN(value)) {
          $td.attr('data-value', value);
        }
        return $td;
      }

      function buildFamilySection(section, index) {
        var tableID = 'family-table-' + index;
        var head = ''
          + '<th class="sortable" data-type="text">Model <span class="material-icons-two-tone sort">import_export</span></th>'
          + '<th class="sortable" data-type="number">Cases <span class="material-icons-two-tone sort">import_export</span></th>';
        (section.metrics || []).forEach(function(metric) {
          head += '<th class="sortable" data-type="number">' + metric
            + ' <span class="material-icons-two-tone sort">import_export</span></th>';
        });

        var $section = $('<section class="mt-4"></section>').html(''
          + '<div class="card shadow-sm">'
          + '<div class="card-header"><h5 class="mb-0">' + section.family + '</h5></div>'
          + '<div class="card-body"><div class="table-responsive">'
          + '<table class="table table-striped table-hover table-bordered table-sm family-table" id="' + tableID + '">'
          + '<thead class="table-light"><tr>' + head + '</tr></thead>'
          + '<tbody></tbody></table>'
          + '</div></div></div>');

        var $tbody = $section.find('tbody');
        (section.rows || []).forEach(function(row) {
          var $row = $('<tr></tr>');
          $row.append($('<td></td>').text(row.model));
          $row.append($('<td></td>').text(row.cases).attr('data-value', row.cases));
          (section.metrics || []).forEach(function(metric) {
            var kind = section.kinds ? section.kinds[metric] : 'number';
            $row.append(createRateCell(kind, rateOf(row, metric)));
          });
          $tbody.append($row);
        });
        highlightTopPerformers($tbody, section.metrics || []);
        return $section;
      }

      function highlightTopPerformers($tbody, metrics) {
        metrics.forEach(function(metric, offset) {
          var mode = METRIC_MODES[metric];
          if (!mode) {
            return;
          }
          var columnIndex = offset + 2;
          var best = null;
          $tbody.find('tr').each(function() {
            var value = parseFloat($(this).children().eq(columnIndex).attr('data-value'));
            if (isNaN(value)) {
              return;
            }
            if (best === null) {
              best = value;
            } else if (mode === 'min' && value < best) {
              best = value;
            } else if (mode === 'max' && value > best) {
              best = value;
            }
          });
          if (best === null) {
            return;
          }
          $tbody.find('tr').each(function() {
            var $cell = $(this).children().eq(columnIndex);
            if (parseFloat($cell.attr('data-value')) === best) {
              $cell.addClass('top-performer');
            }
          });
        });
      }

      function sortTable($table, columnIndex, type, direction) {
        var $tbody = $table.find('tbody');
        var rows = $tbody.find('tr').get();
        rows.sort(function(a, b) {
          var aVal, bVal;
          if (type === 'number') {
            aVal = parseFloat($(a).children().eq(columnIndex).attr('data-value'));
            bVal = parseFloat($(b).children().eq(columnIndex).attr('data-value'));
            if (isNaN(aVal)) { aVal = direction === 'asc' ? Infinity : -Infinity; }
            if (isNaN(bVal)) { bVal = direction === 'asc' ? Infinity : -Infinity; }
          } else {
            aVal = $(a).children().eq(columnIndex).text().toLowerCase();
            bVal = $(b).children().eq(columnIndex).text().toLowerCase();
          }
          if (aVal < bVal) { return direction === 'asc' ? -1 : 1; }
          if (aVal > bVal) { return direction === 'asc' ? 1 : -1; }
          return 0;
        });
        $.each(rows, function(_, row) {
          $tbody.append(row);
        });
      }

      function updateSortIcons($header, direction) {
        $header.closest('tr').find('.sort').each(function() {
          $(this)[0].innerHTML = 'import_export';
        });
        if (direction === 'asc') {
          $header.find('.sort')[0].innerHTML = 'keyboard_double_arrow_up';
        } else if (direction === 'desc') {
          $header.find('.sort')[0].innerHTML = 'keyboard_double_arrow_down';
        }
      }

      function attachSorting() {
        $('.family-table').each(function() {
          var $table = $(this);
          $table.find('thead th.sortable').each(function(index) {
            var direction = 'none';
            $(this).on('click', function() {
              direction = direction === 'asc' ? 'desc' : 'asc';
              sortTable($table, index, $(this).data('type'), direction);
              updateSortIcons($(this), direction);
            });
          });
        });
      }

      function populateSummaryCards(families) {
        families.forEach(function(section) {
          var metric = HEADLINE[section.family];
          if (!metric) {
            return;
          }
          var best = null;
          var bestRate = null;
          (section.rows || []).forEach(function(row) {
            var rate = rateOf(row, metric);
            if (rate === null) {
              return;
            }
            if (bestRate === null || rate > bestRate) {
              bestRate = rate;
              best = row.model;
            }
          });
          if (best !== null) {
            var kind = section.kinds ? section.kinds[metric] : 'number';
            $('#card-' + section.family).text(best + ' (' + formatRate(kind, bestRate) + ')');
          }
        });
      }

      function buildHeadlineChart(families) {
        var canvas = document.getElementById('headlineChart');
        if (!canvas || typeof Chart === 'undefined') {
          return;
        }
        var labels = [];
        var perModel = {};
        var modelOrder = [];
        families.forEach(function(section) {
          var metric = HEADLINE[section.family];
          if (!metric) {
            return;
          }
          labels.push(section.family);
          (section.rows || []).forEach(function(row) {
            if (!(row.model in perModel)) {
              perModel[row.model] = {};
              modelOrder.push(row.model);
            }
            var rate = rateOf(row, metric);
            perModel[row.model][section.family] = rate === null ? null : rate * 100;
          });
        });
        if (!labels.length || !modelOrder.length) {
          $('#headlineChartEmpty').text('No observations to chart.');
          return;
        }
        var datasets = modelOrder.map(function(model, index) {
          return {
            label: model,
            data: labels.map(function(family) {
              var value = perModel[model][family];
              return value === undefined ? null : value;
            }),
            backgroundColor: PALETTE[index % PALETTE.length]
          };
        });
        new Chart(canvas, {
          type: 'bar',
          data: { labels: labels, datasets: datasets },
          options: {
            responsive: true,
            maintainAspectRatio: false,
            scales: {
              y: {
                suggestedMin: 0,
                suggestedMax: 100,
                ticks: {
                  color: '#64748B',
                  callback: function(value) {
                    return value + '%';
                  }
                }
              },
              x: {
                ticks: { color: '#64748B' }
              }
            }
          }
        });
      }

      function populateCosts(costsData) {
        if (!costsData || !costsData.totals || !costsData.totals.calls) {
          $('#costsSection').hide();
          return;
        }
        $('#totalCost').text('$' + Number(costsData.totals.costUsd || 0).toFixed(4));
        var byModel = costsData.byModel || {};
        var $tbody = $('#costsTable tbody').empty();
        Object.keys(byModel).sort().forEach(function(model) {
          var stats = byModel[model];
          var $row = $('<tr></tr>');
          $row.append($('<td></td>').text(model));
          $row.append($('<td></td>').text(stats.calls));
          $row.append($('<td></td>').text(stats.inputTokens));
          $row.append($('<td></td>').text(stats.outputTokens));
          $row.append($('<td></td>').text('$' + Number(stats.costUsd || 0).toFixed(4)));
          $tbody.append($row);
        });
      }

      function applyTheme(theme) {
        var selected = theme === 'dark' ? 'dark' : 'light';
        document.documentElement.setAttribute('data-theme', selected);
        var toggle = document.getElementById('themeToggle');
        if (toggle) {
          var icon = toggle.querySelector('.material-icons-two-tone');
          var label = selected === 'dark' ? 'Switch to light mode' : 'Switch to dark mode';
          toggle.setAttribute('aria-label', label);
          if (icon) {
            icon.textContent = selected === 'dark' ? 'light_mode' : 'dark_mode';
          }
        }
        try {
          localStorage.setItem('modeleval-theme', selected);
        } catch (e) {}
      }

      function initThemeToggle() {
        var saved = null;
        try {
          saved = localStorage.getItem('modeleval-theme');
        } catch (e) {}
        applyTheme(saved || 'light');
        var toggle = document.getElementById('themeToggle');
        if (!toggle) {
          return;
        }
        toggle.addEventListener('click', function() {
          var current = document.documentElement.getAttribute('data-theme');
          applyTheme(current === 'dark' ? 'light' : 'dark');
        });
      }

      $(function() {
        initThemeToggle();
        if (!comparison) {
          return;
        }
        if (comparison.generatedAt) {
          $('#generatedAt').text(new Date(comparison.generatedAt).toLocaleString());
        }
        if (comparison.runId) {
          $('#runId').text(comparison.runId);
        }
        var families = comparison.families || [];
        populateSummaryCards(families);
        var $sections = $('#familySections').empty();
        families.forEach(function(section, index) {
          $sections.append(buildFamilySection(section, index));
        });
        attachSorting();
        buildHeadlineChart(families);
        populateCosts(comparison.costs);
      });
    })(jQuery);
  </script>
</body>
</html>`
