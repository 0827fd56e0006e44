package handlers

import (
	"net/http"
)

// DashboardHandler serves the single-page account manager.
func DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(dashboardHTML))
	}
}

var dashboardHTML = `<!DOCTYPE html>
<html lang="vi">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Account Tabs</title>
    <script src="https://cdn.tailwindcss.com"></script>
    <style>
        body:not(.bg-gray-900) { font-family: system-ui, sans-serif; background: #1a1a2e; color: #eee; padding: 2rem; }
    </style>
</head>
<body class="bg-gray-900 text-gray-100 min-h-screen">
    <div class="container mx-auto px-4 py-6 max-w-6xl">
        <header class="mb-6 flex justify-between items-center">
            <div>
                <h1 class="text-2xl font-bold text-white">🏦 Account Tabs</h1>
                <p class="text-gray-400 text-sm">Bank account listings in four databases</p>
            </div>
            <span class="text-gray-500 text-xs"><span id="status">Ready</span> • <span class="text-gray-300 font-bold">{{VERSION}}</span> • <a href="/health" class="hover:text-gray-300">Health</a></span>
        </header>

        <nav id="tabs" class="flex gap-2 mb-4"></nav>

        <div class="bg-gray-800 rounded-xl p-4 mb-6 flex flex-wrap gap-3 items-center">
            <input id="file" type="file" accept=".txt" class="text-xs">
            <button onclick="uploadFile()" class="text-xs bg-blue-600 hover:bg-blue-500 px-3 py-1 rounded">📤 Upload</button>
            <input id="url" type="url" placeholder="https://..." class="text-xs bg-gray-700 rounded px-2 py-1 flex-1 min-w-48">
            <button onclick="importURL()" class="text-xs bg-purple-600 hover:bg-purple-500 px-3 py-1 rounded">🌐 Load from URL</button>
            <input id="search" type="search" placeholder="Search..." oninput="load()" class="text-xs bg-gray-700 rounded px-2 py-1">
            <button onclick="clearTab()" class="text-xs bg-red-700 hover:bg-red-600 px-3 py-1 rounded">🧹 Clear tab</button>
        </div>

        <div id="stats" class="text-sm text-gray-400 mb-3"></div>

        <div class="bg-gray-800 rounded-xl overflow-x-auto">
            <table class="w-full text-sm">
                <thead>
                    <tr class="text-gray-400 text-xs border-b border-gray-700">
                        <th class="text-left p-2">ID</th>
                        <th class="text-left p-2">Username</th>
                        <th class="text-left p-2">Password</th>
                        <th class="text-left p-2">Full name</th>
                        <th class="text-left p-2">Bank</th>
                        <th class="text-right p-2">Balance</th>
                        <th class="text-left p-2">Status</th>
                        <th class="text-left p-2">Note</th>
                        <th class="text-right p-2">Actions</th>
                    </tr>
                </thead>
                <tbody id="rows">
                    <tr><td colspan="9" class="text-gray-500 p-3">Loading accounts...</td></tr>
                </tbody>
            </table>
        </div>
    </div>

    <script>
        const STATUS_LABELS = { 'idle': 'Đang rãnh', 'in-use': 'Đang sử dụng', 'cancelled': 'Đã hủy' };
        let currentTab = 'tab1';

        function setStatus(text) { document.getElementById('status').textContent = text; }

        function esc(v) {
            return (v == null ? '' : String(v))
                .replace(/&/g, '&amp;')
                .replace(/</g, '&lt;')
                .replace(/>/g, '&gt;')
                .replace(/"/g, '&quot;')
                .replace(/'/g, '&#39;');
        }

        async function loadTabs() {
            const res = await fetch('/api/tabs');
            const data = await res.json();
            document.getElementById('tabs').innerHTML = data.tabs.map(t =>
                '<button onclick="selectTab(\'' + t.id + '\')" class="px-3 py-1 rounded text-sm ' +
                (t.id === currentTab ? 'bg-blue-600' : 'bg-gray-700 hover:bg-gray-600') + '">' +
                esc(t.label) + ' <span class="text-xs text-gray-300">(' + t.count + ')</span></button>').join('');
        }

        function selectTab(tab) { currentTab = tab; refresh(); }

        async function load() {
            const q = document.getElementById('search').value.trim();
            const url = q
                ? '/api/accounts/search?tab=' + currentTab + '&q=' + encodeURIComponent(q)
                : '/api/accounts?tab=' + currentTab;
            const res = await fetch(url);
            const accounts = await res.json();
            const rows = document.getElementById('rows');
            if (!accounts.length) {
                rows.innerHTML = '<tr><td colspan="9" class="text-gray-500 p-3">No accounts</td></tr>';
                return;
            }
            rows.innerHTML = accounts.map(a =>
                '<tr class="border-b border-gray-700">' +
                '<td class="p-2">' + a.id + '</td>' +
                '<td class="p-2 font-mono">' + esc(a.username) + '</td>' +
                '<td class="p-2 font-mono">' + esc(a.password) + '</td>' +
                '<td class="p-2">' + esc(a.fullName) + '</td>' +
                '<td class="p-2"><input value="' + esc(a.bankName) + '" onchange="patch(' + a.id + ', {bankName: this.value || null})" class="bg-gray-700 rounded px-1 w-24"></td>' +
                '<td class="p-2 text-right"><input type="number" value="' + (a.balance || 0) + '" onchange="patch(' + a.id + ', {balance: Number(this.value)})" class="bg-gray-700 rounded px-1 w-28 text-right"></td>' +
                '<td class="p-2"><select onchange="patch(' + a.id + ', {accountStatus: this.value})" class="bg-gray-700 rounded px-1">' +
                Object.keys(STATUS_LABELS).map(s => '<option value="' + s + '"' + (s === a.accountStatus ? ' selected' : '') + '>' + STATUS_LABELS[s] + '</option>').join('') +
                '</select></td>' +
                '<td class="p-2"><input value="' + esc(a.note) + '" onchange="patch(' + a.id + ', {note: this.value})" class="bg-gray-700 rounded px-1 w-32"></td>' +
                '<td class="p-2 text-right"><button onclick="removeAccount(' + a.id + ')" class="text-xs bg-red-600 hover:bg-red-500 px-2 py-1 rounded">🗑</button></td>' +
                '</tr>').join('');
        }

        async function loadStats() {
            const res = await fetch('/api/stats?tab=' + currentTab);
            const st = await res.json();
            document.getElementById('stats').textContent =
                st.total + ' accounts • ' +
                Object.keys(STATUS_LABELS).map(s => STATUS_LABELS[s] + ': ' + (st.byStatus[s] || 0)).join(' • ') +
                ' • Balance: ' + st.balanceDisplay;
        }

        async function refresh() { await Promise.all([loadTabs(), load(), loadStats()]); }

        async function patch(id, fields) {
            const res = await fetch('/api/accounts', {
                method: 'PUT',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify(Object.assign({ id: id, tab: currentTab }, fields))
            });
            const data = await res.json();
            setStatus(res.ok ? 'Saved #' + id : (data.error || 'Update failed'));
            loadStats();
        }

        async function removeAccount(id) {
            if (!confirm('Delete account #' + id + '?')) return;
            const res = await fetch('/api/accounts?id=' + id + '&tab=' + currentTab, { method: 'DELETE' });
            setStatus(res.ok ? 'Deleted #' + id : 'Delete failed');
            refresh();
        }

        async function clearTab() {
            if (!confirm('Delete every account in this tab?')) return;
            const res = await fetch('/api/accounts/all?tab=' + currentTab, { method: 'DELETE' });
            const data = await res.json();
            setStatus(res.ok ? 'Cleared ' + data.count + ' accounts' : (data.error || 'Clear failed'));
            refresh();
        }

        async function uploadFile() {
            const input = document.getElementById('file');
            if (!input.files.length) { setStatus('Choose a file first'); return; }
            const form = new FormData();
            form.append('file', input.files[0]);
            form.append('tab', currentTab);
            const res = await fetch('/api/upload', { method: 'POST', body: form });
            const data = await res.json();
            setStatus(data.message || data.error);
            refresh();
        }

        async function importURL() {
            const url = document.getElementById('url').value.trim();
            if (!url) return;
            setStatus('Fetching...');
            const res = await fetch('/api/import/url', {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify({ url: url, tab: currentTab })
            });
            const data = await res.json();
            setStatus(data.message || data.error);
            refresh();
        }

        refresh();
    </script>
</body>
</html>
`
